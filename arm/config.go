package arm

import (
	"encoding/json"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/armik/ik"
	"go.viam.com/armik/referenceframe"
)

// Config describes an arm: its joints, the tip that ends its chain and the solver that poses it. The joints
// are either listed inline or loaded from a JSON or URDF kinematics file at ModelPath.
type Config struct {
	Name             string                       `json:"name"`
	Joints           []referenceframe.JointConfig `json:"joints,omitempty"`
	ModelPath        string                       `json:"model_path,omitempty"`
	Tip              string                       `json:"tip,omitempty"`
	Solver           string                       `json:"solver,omitempty"`
	SolverAttributes map[string]interface{}       `json:"solver_attributes,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate() error {
	var err error
	if conf.Name == "" {
		err = multierr.Append(err, errors.New("arm config needs a name"))
	}
	switch {
	case len(conf.Joints) == 0 && conf.ModelPath == "":
		err = multierr.Append(err, errors.Wrapf(referenceframe.ErrNoModelInformation, "arm %q", conf.Name))
	case len(conf.Joints) != 0 && conf.ModelPath != "":
		err = multierr.Append(err, errors.Errorf("arm %q sets both joints and model_path", conf.Name))
	}
	for i := range conf.Joints {
		err = multierr.Append(err, conf.Joints[i].Validate())
	}
	switch conf.Solver {
	case "", ik.JacobianSolverName, ik.CyclicSolverName:
	default:
		err = multierr.Append(err, ik.NewUnknownSolverError(conf.Solver))
	}
	if _, solverErr := conf.SolverConfig(); solverErr != nil {
		err = multierr.Append(err, solverErr)
	}
	return err
}

// Model returns the joints and tip of the arm, reading them from ModelPath when no joints are inline. A tip
// set in the arm config overrides the one in the kinematics file.
func (conf *Config) Model() ([]referenceframe.JointConfig, string, error) {
	if conf.ModelPath == "" {
		return conf.Joints, conf.Tip, nil
	}
	mc, err := referenceframe.ModelConfigFromFile(conf.ModelPath)
	if err != nil {
		return nil, "", err
	}
	tip := conf.Tip
	if tip == "" {
		tip = mc.Tip
	}
	return mc.Joints, tip, nil
}

// SolverConfig decodes the solver attributes into an ik.Config. Unknown attributes are an error.
func (conf *Config) SolverConfig() (ik.Config, error) {
	var cfg ik.Config
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ik.Config{}, err
	}
	if err := decoder.Decode(conf.SolverAttributes); err != nil {
		return ik.Config{}, errors.Wrap(err, "failed to decode solver attributes")
	}
	if len(md.Unused) != 0 {
		return ik.Config{}, errors.Wrapf(ik.ErrInvalidConfig, "unknown solver attributes %v", md.Unused)
	}
	if err := cfg.Validate(); err != nil {
		return ik.Config{}, err
	}
	return cfg, nil
}

// UnmarshalConfigJSON parses an arm config. The result is not validated.
func UnmarshalConfigJSON(data []byte) (*Config, error) {
	conf := &Config{}
	if err := json.Unmarshal(data, conf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal arm config")
	}
	return conf, nil
}

// ReadConfigFile reads and parses the arm config at filename.
func ReadConfigFile(filename string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read arm config")
	}
	return UnmarshalConfigJSON(data)
}
