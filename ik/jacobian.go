package ik

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/armik/logging"
	"go.viam.com/armik/referenceframe"
	spatial "go.viam.com/armik/spatialmath"
)

const (
	// below this length a projected vector has no usable direction
	degenerateLength = 1e-9
	// singular values under this fraction of the largest span the null space
	nullSpaceTolerance = 1e-9
)

// JacobianSolver is a damped least squares solver. Each iteration linearizes the chain about its current
// values and steps by Δθ = Jᵀ(JJᵀ + λI)⁻¹e, where e stacks the position and rotation error of the end
// effector. With a pole target set, a secondary step in the null space of J swings the designated joint
// towards the pole without disturbing the end effector.
type JacobianSolver struct {
	solverBase
	pole *PoleTarget
}

// NewJacobianSolver creates a Jacobian solver. A nil logger discards output.
func NewJacobianSolver(cfg Config, logger logging.Logger) (*JacobianSolver, error) {
	base, err := newSolverBase(JacobianSolverName, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &JacobianSolver{solverBase: base}, nil
}

// SetPole sets the pole target used by subsequent solves. nil disables the pole bias.
func (s *JacobianSolver) SetPole(pole *PoleTarget) {
	s.pole = pole
}

// Pole returns the current pole target, if any.
func (s *JacobianSolver) Pole() *PoleTarget {
	return s.pole
}

// Solve runs up to MaxIterations damped least squares steps towards target. Joint values are written back
// to the chain after every step, so a solve that stops early keeps its partial progress. With a live pole,
// the solve keeps swivelling the pole joint after the target is reached until the swivel settles; if the
// iterations run out first, the last configuration that reached the target is restored. The chain's cached
// world transforms are left dirty; call UpdateWorldTransforms before reading them.
func (s *JacobianSolver) Solve(chain *referenceframe.Chain, target spatial.Pose) (*SolveReport, error) {
	values, poses, err := start(chain, target)
	if err != nil {
		return nil, err
	}
	cfg := s.cfg
	rot := chain.RotationalIndices()
	tip := chain.Len() - 1
	report := &SolveReport{}
	var reached []float64

	for k := 0; ; k++ {
		pos, orient, e := PoseError(poses[tip], target)
		report.record(k, pos, orient)
		atTarget := withinThreshold(cfg, pos, orient)

		var jac *mat.Dense
		var bias []float64
		if polePoint, ok := s.pole.resolve(); ok && len(rot) != 0 {
			jac = jacobian(chain, poses, rot)
			bias = s.poleStep(chain, poses, rot, jac, target.Point(), polePoint)
		}
		if atTarget {
			if poleSettled(bias, cfg) {
				report.Converged = true
				break
			}
			reached = append(reached[:0], values...)
		}
		if k >= cfg.MaxIterations || len(rot) == 0 {
			if reached != nil && !atTarget {
				values = reached
				chain.ForwardPath(values, poses, 0)
				if err := chain.SetJointValues(values); err != nil {
					return report, err
				}
				pos, orient, _ = PoseError(poses[tip], target)
				report.record(k, pos, orient)
			}
			report.Converged = atTarget || reached != nil
			break
		}

		if jac == nil {
			jac = jacobian(chain, poses, rot)
		}
		step, err := dampedStep(jac, e, cfg.Damping)
		if err != nil {
			s.logOutcome(JacobianSolverName, report)
			return report, errors.Wrapf(err, "iteration %d", k)
		}
		if bias != nil {
			floats.Add(step, bias)
		}
		scaleToMax(step, cfg.MaxStepAngle)

		for c, i := range rot {
			values[i] = chain.ClampValue(i, values[i]+step[c])
		}
		chain.ForwardPath(values, poses, rot[0])
		if err := chain.SetJointValues(values); err != nil {
			return report, err
		}
	}

	s.logOutcome(JacobianSolverName, report)
	return report, nil
}

// poleSettled reports whether a pole step is too small to be worth another iteration.
func poleSettled(bias []float64, cfg Config) bool {
	return bias == nil || floats.Norm(bias, math.Inf(1)) <= cfg.AllowableTargetAngle
}

// jacobian builds the 6×len(rot) geometric Jacobian of the end effector. Column c belongs to the rotational
// joint at serial index rot[c]: [â × (p_end − p_i); â] with â the joint's world axis.
func jacobian(chain *referenceframe.Chain, poses []spatial.Pose, rot []int) *mat.Dense {
	pEnd := poses[len(poses)-1].Point()
	jac := mat.NewDense(6, len(rot), nil)
	for c, i := range rot {
		axis := worldAxis(chain, poses, i)
		linear := axis.Cross(pEnd.Sub(poses[i].Point()))
		jac.SetCol(c, []float64{linear.X, linear.Y, linear.Z, axis.X, axis.Y, axis.Z})
	}
	return jac
}

// dampedStep solves (JJᵀ + λI)y = e by Cholesky and returns Jᵀy.
func dampedStep(jac *mat.Dense, e [6]float64, lambda float64) ([]float64, error) {
	var sym mat.SymDense
	sym.SymOuterK(1, jac)
	for d := 0; d < 6; d++ {
		sym.SetSym(d, d, sym.At(d, d)+lambda)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(&sym); !ok {
		return nil, ErrSingularStep
	}
	var y mat.VecDense
	if err := chol.SolveVecTo(&y, mat.NewVecDense(6, e[:])); err != nil {
		// a poorly conditioned system still yields a usable step
		if _, ok := err.(mat.Condition); !ok { //nolint:errorlint
			return nil, err
		}
	}
	var step mat.VecDense
	step.MulVec(jac.T(), &y)
	return step.RawVector().Data, nil
}

// scaleToMax uniformly shrinks step so that no entry exceeds limit in magnitude, preserving its direction.
func scaleToMax(step []float64, limit float64) {
	if len(step) == 0 {
		return
	}
	if m := floats.Norm(step, math.Inf(1)); m > limit {
		floats.Scale(limit/m, step)
	}
}

// poleStep returns a joint step that swings the pole joint about the line from the first rotational joint
// to the target, PoleGain of the way towards the pole. The gradient J_elbowᵀd is projected into the null
// space of jac and scaled so the elbow's motion along it best matches d, then bounded so the end effector
// moves at most PoleTolerance and no joint more than MaxStepAngle. nil means no bias applies.
func (s *JacobianSolver) poleStep(
	chain *referenceframe.Chain,
	poses []spatial.Pose,
	rot []int,
	jac *mat.Dense,
	target, pole r3.Vector,
) []float64 {
	cfg := s.cfg
	idx := s.pole.JointIndex
	if idx <= rot[0] || idx >= len(poses) {
		return nil
	}

	base := poses[rot[0]].Point()
	swing := target.Sub(base)
	if swing.Norm() < degenerateLength {
		return nil
	}
	swing = swing.Normalize()

	elbow := poses[idx].Point()
	ve := spatial.ProjectOntoPlane(elbow.Sub(base), swing)
	vp := spatial.ProjectOntoPlane(pole.Sub(base), swing)
	if ve.Norm() < degenerateLength || vp.Norm() < degenerateLength {
		return nil
	}
	angle := spatial.AngleTo(ve, vp, swing)
	swung := spatial.RotateVector(spatial.NewR4AAFromAxis(cfg.PoleGain*angle, swing).ToQuat(), elbow.Sub(base))
	d := base.Add(swung).Sub(elbow)

	// z = J_elbowᵀ d, where only joints above the elbow move it
	lever := make([]r3.Vector, len(rot))
	z := make([]float64, len(rot))
	for c, i := range rot {
		if i >= idx {
			break
		}
		lever[c] = worldAxis(chain, poses, i).Cross(elbow.Sub(poses[i].Point()))
		z[c] = lever[c].Dot(d)
	}

	bias := nullSpaceProjection(jac, z)
	if bias == nil {
		return nil
	}
	// scale the null space direction so the elbow covers as much of d as that direction allows
	var m r3.Vector
	for c := range bias {
		m = m.Add(lever[c].Mul(bias[c]))
	}
	mm := m.Norm2()
	if mm < degenerateLength*degenerateLength {
		return nil
	}
	floats.Scale(m.Dot(d)/mm, bias)

	var moved mat.VecDense
	moved.MulVec(jac, mat.NewVecDense(len(bias), bias))
	if norm := mat.Norm(&moved, 2); norm > cfg.PoleTolerance {
		floats.Scale(cfg.PoleTolerance/norm, bias)
	}
	scaleToMax(bias, cfg.MaxStepAngle)
	return bias
}

// nullSpaceProjection returns (I − J⁺J)z, computed from the right singular vectors of J whose singular
// values are negligible.
func nullSpaceProjection(jac *mat.Dense, z []float64) []float64 {
	var svd mat.SVD
	if ok := svd.Factorize(jac, mat.SVDFull); !ok {
		return nil
	}
	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	rank := 0
	for _, sv := range values {
		if sv > nullSpaceTolerance*values[0] {
			rank++
		}
	}
	_, n := jac.Dims()
	out := make([]float64, n)
	for k := rank; k < n; k++ {
		col := mat.Col(nil, k, &v)
		floats.AddScaled(out, floats.Dot(col, z), col)
	}
	return out
}
