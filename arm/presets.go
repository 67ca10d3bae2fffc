package arm

import (
	// for embedding preset configs.
	_ "embed"

	"github.com/pkg/errors"
)

// Names of the built-in arm presets.
const (
	DefaultPreset = "default"
	PlanarPreset  = "planar"
)

//go:embed default_arm.json
var defaultArmJSON []byte

//go:embed planar_arm.json
var planarArmJSON []byte

// DefaultArmConfig returns a seven joint arm: a fixed root, a three axis shoulder, an elbow 0.3 below it,
// and a three axis wrist 0.25 below the elbow. It is solved with the Jacobian solver.
func DefaultArmConfig() (*Config, error) {
	return UnmarshalConfigJSON(defaultArmJSON)
}

// PlanarArmConfig returns a base rotating about y carrying five unit links that bend about x, solved by
// CCD one sweep at a time.
func PlanarArmConfig() (*Config, error) {
	return UnmarshalConfigJSON(planarArmJSON)
}

// Preset returns the config of a built-in arm by name.
func Preset(name string) (*Config, error) {
	switch name {
	case DefaultPreset, "":
		return DefaultArmConfig()
	case PlanarPreset:
		return PlanarArmConfig()
	default:
		return nil, errors.Errorf("unknown arm preset %q", name)
	}
}
