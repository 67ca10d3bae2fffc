// Package ik contains the iterative inverse kinematics solvers that pose a referenceframe.Chain.
package ik

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Tunables with documented defaults. A zero value in a Config means "use the default".
const (
	// DefaultDamping is the lambda added to the diagonal of JJᵀ in the damped least squares step.
	DefaultDamping = 0.01
	// DefaultMaxStepAngle bounds the largest single-joint change of one Jacobian iteration, in radians.
	DefaultMaxStepAngle = 0.2
	// DefaultStepFraction is the CCD step scale. 1 applies each joint's full correction.
	DefaultStepFraction = 1.0
	// DefaultPoleGain is the fraction of the elbow-to-pole angle requested per iteration.
	DefaultPoleGain = 0.5
	// DefaultPoleTolerance bounds how far the pole step may move the end effector per iteration.
	DefaultPoleTolerance = 1e-3
)

// Config holds solver tuning. It is decoded from JSON, or from a generic attribute map by mapstructure
// using the json tags. AllowableTargetDistance, AllowableTargetAngle (radians) and MaxIterations
// are required; the rest fall back to the defaults above when zero.
type Config struct {
	AllowableTargetDistance float64 `json:"allowable_target_distance"`
	AllowableTargetAngle    float64 `json:"allowable_target_angle"`
	MaxIterations           int     `json:"max_iterations"`

	Damping       float64 `json:"damping,omitempty"`
	MaxStepAngle  float64 `json:"max_step_angle,omitempty"`
	StepFraction  float64 `json:"step_fraction,omitempty"`
	PoleGain      float64 `json:"pole_gain,omitempty"`
	PoleTolerance float64 `json:"pole_tolerance,omitempty"`
}

// Validate returns every problem with the config, each wrapping ErrInvalidConfig.
func (cfg Config) Validate() error {
	var err error
	invalid := func(format string, args ...interface{}) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, format, args...))
	}
	if !(cfg.AllowableTargetDistance > 0) {
		invalid("allowable_target_distance must be positive, got %v", cfg.AllowableTargetDistance)
	}
	if !(cfg.AllowableTargetAngle > 0) {
		invalid("allowable_target_angle must be positive, got %v", cfg.AllowableTargetAngle)
	}
	if cfg.MaxIterations <= 0 {
		invalid("max_iterations must be positive, got %d", cfg.MaxIterations)
	}
	if cfg.Damping < 0 {
		invalid("damping must not be negative, got %v", cfg.Damping)
	}
	if cfg.MaxStepAngle < 0 {
		invalid("max_step_angle must not be negative, got %v", cfg.MaxStepAngle)
	}
	if cfg.StepFraction < 0 || cfg.StepFraction > 1 {
		invalid("step_fraction must be within [0, 1], got %v", cfg.StepFraction)
	}
	if cfg.PoleGain < 0 || cfg.PoleGain > 1 {
		invalid("pole_gain must be within [0, 1], got %v", cfg.PoleGain)
	}
	if cfg.PoleTolerance < 0 {
		invalid("pole_tolerance must not be negative, got %v", cfg.PoleTolerance)
	}
	return err
}

// withDefaults fills unset optional fields.
func (cfg Config) withDefaults() Config {
	if cfg.Damping == 0 {
		cfg.Damping = DefaultDamping
	}
	if cfg.MaxStepAngle == 0 {
		cfg.MaxStepAngle = DefaultMaxStepAngle
	}
	if cfg.StepFraction == 0 {
		cfg.StepFraction = DefaultStepFraction
	}
	if cfg.PoleGain == 0 {
		cfg.PoleGain = DefaultPoleGain
	}
	if cfg.PoleTolerance == 0 {
		cfg.PoleTolerance = DefaultPoleTolerance
	}
	return cfg
}
