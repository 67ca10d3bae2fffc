package referenceframe

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/armik/utils"
)

// World is the reserved parent name of a joint that starts a chain.
const World = "world"

// JointConfig is a single joint in a kinematics JSON file. An empty Parent means the previous joint in the
// list; the first joint with an empty Parent, or any joint with Parent "world", is a root. Min and Max are
// in degrees.
type JointConfig struct {
	ID     string    `json:"id"`
	Parent string    `json:"parent,omitempty"`
	Type   JointType `json:"type"`
	Axis   r3.Vector `json:"axis"`
	Offset r3.Vector `json:"offset"`
	Min    *float64  `json:"min,omitempty"`
	Max    *float64  `json:"max,omitempty"`
}

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name   string        `json:"name"`
	Joints []JointConfig `json:"joints"`
	Tip    string        `json:"tip,omitempty"`
}

// UnmarshalModelJSON will parse the given JSON data into a chain.
func UnmarshalModelJSON(jsonData []byte) (*Chain, error) {
	cfg, err := unmarshalModelConfigJSON(jsonData)
	if err != nil {
		return nil, err
	}
	return cfg.ParseConfig()
}

func unmarshalModelConfigJSON(jsonData []byte) (*ModelConfigJSON, error) {
	// empty data probably means that the arm has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}
	cfg := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg, nil
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename string) (*Chain, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData)
}

// ParseConfig builds the chain described by the config.
func (cfg *ModelConfigJSON) ParseConfig() (*Chain, error) {
	return BuildChain(cfg.Joints, cfg.Tip)
}

// Validate checks each joint on its own, returning every problem found.
func (jc *JointConfig) Validate() error {
	var err error
	if jc.ID == "" {
		err = multierr.Append(err, errors.New("joint id must not be empty"))
	}
	if jc.ID == World {
		err = multierr.Append(err, errors.Wrapf(ErrReservedWord, "joint id %q", World))
	}
	switch jc.Type {
	case RotationalJoint:
		if jc.Axis.Norm2() == 0 {
			err = multierr.Append(err, errors.Wrapf(ErrZeroAxis, "joint %q", jc.ID))
		}
	case FixedJoint:
	default:
		err = multierr.Append(err, NewUnsupportedJointTypeError(jc.Type))
	}
	if jc.Min != nil && jc.Max != nil && *jc.Min > *jc.Max {
		err = multierr.Append(err, errors.Errorf("joint %q min %v is greater than max %v", jc.ID, *jc.Min, *jc.Max))
	}
	return err
}

func (jc *JointConfig) limit() Limit {
	limit := UnboundedLimit()
	if jc.Min != nil {
		limit.Min = utils.DegToRad(*jc.Min)
	}
	if jc.Max != nil {
		limit.Max = utils.DegToRad(*jc.Max)
	}
	return limit
}

// BuildChain builds a joint tree from the given specs and returns a chain rooted at the single root. With an
// empty tip the serial path follows single children to the end; otherwise it runs from the root to tip.
func BuildChain(specs []JointConfig, tip string) (*Chain, error) {
	if len(specs) == 0 {
		return nil, ErrNoModelInformation
	}

	var validationErr error
	seen := map[string]bool{}
	for i := range specs {
		validationErr = multierr.Append(validationErr, specs[i].Validate())
		if specs[i].ID != "" && seen[specs[i].ID] {
			validationErr = multierr.Append(validationErr, errors.Wrap(ErrDuplicateJoint, specs[i].ID))
		}
		seen[specs[i].ID] = true
	}
	if validationErr != nil {
		return nil, validationErr
	}

	tree := NewTree()
	ids := make([]NodeID, len(specs))
	for i, spec := range specs {
		id, err := tree.AddJoint(spec.ID, spec.Type, spec.Axis, spec.Offset)
		if err != nil {
			return nil, err
		}
		if spec.Type == RotationalJoint {
			if err := tree.SetLimit(id, spec.limit()); err != nil {
				return nil, err
			}
		}
		ids[i] = id
	}

	// Resolve parents first so an unknown parent is reported for every joint, not just the first.
	parents := make([]NodeID, len(specs))
	var parentErr error
	for i, spec := range specs {
		switch {
		case spec.Parent == World || (spec.Parent == "" && i == 0):
			parents[i] = NoParent
		case spec.Parent == "":
			parents[i] = ids[i-1]
		default:
			parent, ok := tree.Lookup(spec.Parent)
			if !ok {
				parentErr = multierr.Append(parentErr, NewParentNotFoundError(spec.ID, spec.Parent))
				continue
			}
			parents[i] = parent
		}
	}
	if parentErr != nil {
		return nil, parentErr
	}

	for i, parent := range parents {
		if parent == NoParent {
			continue
		}
		if err := tree.Connect(parent, ids[i]); err != nil {
			return nil, err
		}
	}

	roots := tree.roots()
	if len(roots) != 1 {
		return nil, errors.Wrapf(ErrNeedOneRoot, "have %d", len(roots))
	}

	if tip == "" {
		return NewChain(tree, roots[0])
	}
	tipID, ok := tree.Lookup(tip)
	if !ok {
		return nil, errors.Wrapf(ErrTipNotInChain, "no joint named %q", tip)
	}
	return NewChainToTip(tree, roots[0], tipID)
}
