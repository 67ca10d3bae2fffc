package ik

import (
	"go.viam.com/armik/logging"
	"go.viam.com/armik/referenceframe"
	spatial "go.viam.com/armik/spatialmath"
)

// CyclicSolver is a cyclic coordinate descent solver. Each iteration sweeps the rotational joints from tip
// to root and turns each one so the end effector swings towards the target about that joint's axis. Once
// the position is inside the allowed distance, sweeps turn joints to reduce the rotation error instead.
type CyclicSolver struct {
	solverBase
}

// NewCyclicSolver creates a CCD solver. A nil logger discards output.
func NewCyclicSolver(cfg Config, logger logging.Logger) (*CyclicSolver, error) {
	base, err := newSolverBase(CyclicSolverName, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &CyclicSolver{solverBase: base}, nil
}

// Solve runs up to MaxIterations sweeps towards target, writing joint values back to the chain after each
// sweep. The chain's cached world transforms are left dirty; call UpdateWorldTransforms before reading them.
func (s *CyclicSolver) Solve(chain *referenceframe.Chain, target spatial.Pose) (*SolveReport, error) {
	values, poses, err := start(chain, target)
	if err != nil {
		return nil, err
	}
	cfg := s.cfg
	rot := chain.RotationalIndices()
	tip := chain.Len() - 1
	goal := target.Point()
	report := &SolveReport{}

	for k := 0; ; k++ {
		pos, orient, _ := PoseError(poses[tip], target)
		report.record(k, pos, orient)
		if withinThreshold(cfg, pos, orient) {
			report.Converged = true
			break
		}
		if k >= cfg.MaxIterations || len(rot) == 0 {
			break
		}

		orienting := pos <= cfg.AllowableTargetDistance
		for c := len(rot) - 1; c >= 0; c-- {
			i := rot[c]
			axis := worldAxis(chain, poses, i)
			var phi float64
			if orienting {
				_, _, e := PoseError(poses[tip], target)
				phi = rotationError(e).Dot(axis)
			} else {
				pivot := poses[i].Point()
				toEnd := spatial.ProjectOntoPlane(poses[tip].Point().Sub(pivot), axis)
				toGoal := spatial.ProjectOntoPlane(goal.Sub(pivot), axis)
				if toEnd.Norm() < degenerateLength || toGoal.Norm() < degenerateLength {
					continue
				}
				phi = spatial.AngleTo(toEnd, toGoal, axis)
			}
			values[i] = chain.ClampValue(i, values[i]+phi*cfg.StepFraction)
			chain.ForwardPath(values, poses, i)
		}
		if err := chain.SetJointValues(values); err != nil {
			return report, err
		}
	}

	s.logOutcome(CyclicSolverName, report)
	return report, nil
}
