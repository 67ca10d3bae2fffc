package ik

import (
	"fmt"

	"github.com/pkg/errors"
)

// SolveReport is the outcome of one Solve call. A report is produced even when the solver stops short of
// the target; the chain keeps whatever progress was made.
type SolveReport struct {
	Converged        bool
	Iterations       int
	PositionError    float64
	OrientationError float64
}

// Err returns nil for a converged solve, and an error wrapping ErrNotConverged otherwise.
func (r *SolveReport) Err() error {
	if r == nil || r.Converged {
		return nil
	}
	return errors.Wrapf(ErrNotConverged, "after %d iterations, position error %.6g, orientation error %.6g rad",
		r.Iterations, r.PositionError, r.OrientationError)
}

func (r *SolveReport) String() string {
	return fmt.Sprintf("converged: %t, iterations: %d, position error: %.6g, orientation error: %.6g rad",
		r.Converged, r.Iterations, r.PositionError, r.OrientationError)
}

func (r *SolveReport) record(iteration int, pos, orient float64) {
	r.Iterations = iteration
	r.PositionError = pos
	r.OrientationError = orient
}
