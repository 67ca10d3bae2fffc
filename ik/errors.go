package ik

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig is wrapped by every config validation failure.
	ErrInvalidConfig = errors.New("invalid solver config")

	// ErrNotConverged is wrapped by SolveReport.Err when a solve ran out of iterations.
	ErrNotConverged = errors.New("ik solver did not converge")

	// ErrNilChain is returned when Solve is given no chain.
	ErrNilChain = errors.New("cannot solve a nil chain")

	// ErrNilTarget is returned when Solve is given no target pose.
	ErrNilTarget = errors.New("cannot solve for a nil target")

	// ErrNonFiniteTarget is returned when a target pose has a NaN or infinite component.
	ErrNonFiniteTarget = errors.New("target pose must be finite")

	// ErrStalePole is returned when a pole handle no longer refers to a live pole.
	ErrStalePole = errors.New("pole handle is stale")

	// ErrSingularStep is returned when the damped least squares system cannot be factorized.
	ErrSingularStep = errors.New("damped least squares system is not positive definite")
)

// NewUnknownSolverError is returned by NewSolver for an unrecognized solver name.
func NewUnknownSolverError(kind string) error {
	return errors.Errorf("unknown ik solver %q, supported solvers are %q and %q", kind, JacobianSolverName, CyclicSolverName)
}
