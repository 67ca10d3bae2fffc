package referenceframe

import (
	"encoding/xml"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/armik/utils"
)

// URDF joint types beyond the ones shared with JointType.
const (
	urdfContinuousJoint = "continuous"
	urdfExtension       = ".urdf"
)

// URDFConfig represents the fields of a Universal Robot Description Format (URDF) file that describe a chain.
type URDFConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Links   []URDFLink  `xml:"link"`
	Joints  []URDFJoint `xml:"joint"`
}

// URDFLink is a URDF link element. Only its name is used.
type URDFLink struct {
	XMLName xml.Name `xml:"link"`
	Name    string   `xml:"name,attr"`
}

// URDFLimit is a URDF limit element. Revolute limits are in radians.
type URDFLimit struct {
	XMLName xml.Name `xml:"limit"`
	Lower   float64  `xml:"lower,attr"`
	Upper   float64  `xml:"upper,attr"`
}

// URDFFrame names the link on one side of a joint.
type URDFFrame struct {
	Link string `xml:"link,attr"`
}

// URDFPose is a URDF origin element.
type URDFPose struct {
	XMLName xml.Name `xml:"origin"`
	RPY     string   `xml:"rpy,attr"` // "r p y", radians
	XYZ     string   `xml:"xyz,attr"` // "x y z"
}

// URDFAxis is a URDF axis element.
type URDFAxis struct {
	XMLName xml.Name `xml:"axis"`
	XYZ     string   `xml:"xyz,attr"`
}

// URDFJoint is a URDF joint element.
type URDFJoint struct {
	XMLName xml.Name   `xml:"joint"`
	Name    string     `xml:"name,attr"`
	Type    string     `xml:"type,attr"`
	Parent  URDFFrame  `xml:"parent"`
	Child   URDFFrame  `xml:"child"`
	Origin  *URDFPose  `xml:"origin,omitempty"`
	Axis    *URDFAxis  `xml:"axis,omitempty"`
	Limit   *URDFLimit `xml:"limit,omitempty"`
}

// ParseURDFFile will read a given file and build the chain its URDF data describes.
func ParseURDFFile(filename string) (*Chain, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	mc, err := ConvertURDFToConfig(xmlData, "")
	if err != nil {
		return nil, err
	}
	return mc.ParseConfig()
}

// ConvertURDFToConfig will transfer the given URDF XML data into an equivalent ModelConfigJSON. Each URDF joint
// becomes a joint whose parent is the joint that produced its parent link; joints hanging off a link no
// joint produces start at the world. Joint origins must not be rotated, since a joint offset is a pure
// translation.
func ConvertURDFToConfig(xmlData []byte, modelName string) (*ModelConfigJSON, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}
	urdf := &URDFConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent URDFConfig struct")
	}
	if modelName == "" {
		modelName = urdf.Name
	}

	producedBy := make(map[string]string, len(urdf.Joints))
	for _, jointElem := range urdf.Joints {
		producedBy[jointElem.Child.Link] = jointElem.Name
	}

	mc := &ModelConfigJSON{Name: modelName}
	for _, jointElem := range urdf.Joints {
		if jointElem.Name == World {
			return nil, errors.Wrapf(ErrReservedWord, "URDF joint %q", World)
		}
		thisJoint := JointConfig{ID: jointElem.Name, Parent: World}
		if parent, ok := producedBy[jointElem.Parent.Link]; ok {
			thisJoint.Parent = parent
		}

		if jointElem.Origin != nil {
			xyz, err := parseURDFTriple(jointElem.Origin.XYZ)
			if err != nil {
				return nil, errors.Wrapf(err, "origin of joint %q", jointElem.Name)
			}
			rpy, err := parseURDFTriple(jointElem.Origin.RPY)
			if err != nil {
				return nil, errors.Wrapf(err, "origin of joint %q", jointElem.Name)
			}
			if rpy != (r3.Vector{}) {
				return nil, errors.Errorf("joint %q has a rotated origin, which is not supported", jointElem.Name)
			}
			thisJoint.Offset = xyz
		}

		switch jointElem.Type {
		case string(RotationalJoint), urdfContinuousJoint:
			thisJoint.Type = RotationalJoint
			// an omitted axis is the x axis
			thisJoint.Axis = r3.Vector{X: 1}
			if jointElem.Axis != nil {
				axis, err := parseURDFTriple(jointElem.Axis.XYZ)
				if err != nil {
					return nil, errors.Wrapf(err, "axis of joint %q", jointElem.Name)
				}
				thisJoint.Axis = axis
			}
			if jointElem.Type == string(RotationalJoint) && jointElem.Limit != nil {
				lower, upper := utils.RadToDeg(jointElem.Limit.Lower), utils.RadToDeg(jointElem.Limit.Upper)
				thisJoint.Min, thisJoint.Max = &lower, &upper
			}
		case string(FixedJoint):
			thisJoint.Type = FixedJoint
		default:
			return nil, NewUnsupportedJointTypeError(JointType(jointElem.Type))
		}
		mc.Joints = append(mc.Joints, thisJoint)
	}
	return mc, nil
}

// ModelConfigFromFile reads a kinematics file, choosing JSON or URDF by its extension.
func ModelConfigFromFile(filename string) (*ModelConfigJSON, error) {
	//nolint:gosec
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read kinematics file")
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case urdfExtension:
		return ConvertURDFToConfig(data, "")
	case ".json":
		return unmarshalModelConfigJSON(data)
	default:
		return nil, errors.Errorf("unsupported kinematics file type %q", filepath.Ext(filename))
	}
}

// parseURDFTriple parses a space delimited "x y z" attribute. An empty attribute is the zero vector.
func parseURDFTriple(s string) (r3.Vector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return r3.Vector{}, nil
	}
	if len(fields) != 3 {
		return r3.Vector{}, errors.Errorf("expected 3 values, got %q", s)
	}
	var v [3]float64
	for i, f := range fields {
		value, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(value) {
			return r3.Vector{}, errors.Errorf("%q is not a number", f)
		}
		v[i] = value
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}
