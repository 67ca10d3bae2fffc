package cli

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/armik/arm"
	"go.viam.com/armik/ik"
	"go.viam.com/armik/logging"
	spatial "go.viam.com/armik/spatialmath"
)

// ForwardKinematicsAction sets the joints of an arm and prints the resulting joint table.
func ForwardKinematicsAction(c *cli.Context) error {
	conf, err := armConfig(c)
	if err != nil {
		return err
	}
	a, err := arm.NewArmFromConfig(conf, loggerFrom(c))
	if err != nil {
		return err
	}
	if raw := c.String(flagJoints); raw != "" {
		values, err := parseFloats(raw, -1)
		if err != nil {
			return errors.Wrapf(err, "bad --%s", flagJoints)
		}
		values, err = expandJointValues(a, values)
		if err != nil {
			return err
		}
		if err := a.SetJointValues(values); err != nil {
			return err
		}
	}
	ee, err := a.EndEffector()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", a.String())
	infof(c.App.Writer, "end effector: %v", ee)
	return nil
}

// SolveAction moves an arm towards a target pose. Falling short of the target is reported, not returned as an
// error.
func SolveAction(c *cli.Context) error {
	logger := loggerFrom(c)
	conf, err := armConfig(c)
	if err != nil {
		return err
	}
	if s := c.String(flagSolver); s != "" {
		conf.Solver = s
	}
	if n := c.Int(flagMaxIterations); n != 0 {
		if conf.SolverAttributes == nil {
			conf.SolverAttributes = map[string]interface{}{}
		}
		conf.SolverAttributes["max_iterations"] = n
	}
	a, err := arm.NewArmFromConfig(conf, logger)
	if err != nil {
		return err
	}

	target, err := parseTarget(c.String(flagTarget), c.String(flagAxisAngle))
	if err != nil {
		return err
	}

	if raw := c.String(flagPole); raw != "" {
		pole, err := parseVector(raw)
		if err != nil {
			return errors.Wrapf(err, "bad --%s", flagPole)
		}
		idx, err := a.JointIndex(c.String(flagPoleJoint))
		if err != nil {
			return err
		}
		reg := ik.NewPoleRegistry()
		if err := a.SetPole(reg, reg.Add(pole), idx); err != nil {
			return err
		}
	}

	report, err := a.Solve(target)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", a.String())
	if report.Converged {
		infof(c.App.Writer, "%s", report)
	} else {
		warningf(c.App.Writer, "%s", report)
	}
	logger.Infow("solve finished", "arm", a.Name(), "converged", report.Converged, "iterations", report.Iterations)
	return nil
}

// SchemaAction prints the JSON schema of arm.Config.
func SchemaAction(c *cli.Context) error {
	schema, err := json.MarshalIndent(jsonschema.Reflect(&arm.Config{}), "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", schema)
	return nil
}

func armConfig(c *cli.Context) (*arm.Config, error) {
	if path := c.String(flagConfig); path != "" {
		return arm.ReadConfigFile(path)
	}
	return arm.Preset(c.String(flagPreset))
}

func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
		return logger
	}
	return logging.Global()
}

func parseTarget(position, axisAngle string) (spatial.Pose, error) {
	pt, err := parseVector(position)
	if err != nil {
		return nil, errors.Wrapf(err, "bad --%s", flagTarget)
	}
	if axisAngle == "" {
		return spatial.NewPoseFromPoint(pt), nil
	}
	aa, err := parseFloats(axisAngle, 4)
	if err != nil {
		return nil, errors.Wrapf(err, "bad --%s", flagAxisAngle)
	}
	r4 := &spatial.R4AA{Theta: aa[0], RX: aa[1], RY: aa[2], RZ: aa[3]}
	if r4.RX == 0 && r4.RY == 0 && r4.RZ == 0 {
		return nil, errors.Errorf("bad --%s: axis must not be zero", flagAxisAngle)
	}
	r4.Normalize()
	return spatial.NewPose(pt, r4), nil
}

// expandJointValues accepts either one value per joint on the serial path, or one per rotational joint.
func expandJointValues(a *arm.Arm, values []float64) ([]float64, error) {
	chain := a.Chain()
	switch len(values) {
	case chain.Len():
		return values, nil
	case chain.DoF():
		full := make([]float64, chain.Len())
		for k, i := range chain.RotationalIndices() {
			full[i] = values[k]
		}
		return full, nil
	default:
		return nil, errors.Errorf("arm %q takes %d joint values (or %d for its rotational joints), got %d",
			a.Name(), chain.Len(), chain.DoF(), len(values))
	}
}
