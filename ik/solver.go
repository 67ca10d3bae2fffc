package ik

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/armik/logging"
	"go.viam.com/armik/referenceframe"
	spatial "go.viam.com/armik/spatialmath"
)

// Names accepted by NewSolver.
const (
	JacobianSolverName = "jacobian"
	CyclicSolverName   = "ccd"
)

// Solver moves the joints of a chain so its end effector approaches a target pose given in the chain-root
// frame. Solving is synchronous and bounded by the config's MaxIterations. A non-nil error is returned only
// for misuse or a numeric failure; running out of iterations is reported through the SolveReport.
type Solver interface {
	Solve(chain *referenceframe.Chain, target spatial.Pose) (*SolveReport, error)
	Config() Config
	SetConfig(cfg Config) error
}

// NewSolver creates a solver by name. An empty name selects the Jacobian solver.
func NewSolver(kind string, cfg Config, logger logging.Logger) (Solver, error) {
	switch kind {
	case JacobianSolverName, "":
		return NewJacobianSolver(cfg, logger)
	case CyclicSolverName:
		return NewCyclicSolver(cfg, logger)
	default:
		return nil, NewUnknownSolverError(kind)
	}
}

// solverBase holds what both solvers share: a validated config with defaults applied, and a logger.
type solverBase struct {
	cfg    Config
	logger logging.Logger
}

func newSolverBase(name string, cfg Config, logger logging.Logger) (solverBase, error) {
	if err := cfg.Validate(); err != nil {
		return solverBase{}, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger(name)
	}
	return solverBase{cfg: cfg.withDefaults(), logger: logger}, nil
}

// Config returns the solver's config with defaults filled in.
func (b *solverBase) Config() Config {
	return b.cfg
}

// SetConfig validates and swaps the config used by subsequent solves.
func (b *solverBase) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.cfg = cfg.withDefaults()
	return nil
}

// start checks arguments and snapshots the chain into a working copy of values and serial-path poses.
func start(chain *referenceframe.Chain, target spatial.Pose) ([]float64, []spatial.Pose, error) {
	if chain == nil {
		return nil, nil, ErrNilChain
	}
	if target == nil {
		return nil, nil, ErrNilTarget
	}
	if !finitePose(target) {
		return nil, nil, errors.Wrapf(ErrNonFiniteTarget, "%v", target)
	}
	values := chain.JointValues()
	poses := make([]spatial.Pose, chain.Len())
	chain.ForwardPath(values, poses, 0)
	return values, poses, nil
}

func finitePose(p spatial.Pose) bool {
	pt := p.Point()
	q := p.Orientation().Quaternion()
	for _, v := range []float64{pt.X, pt.Y, pt.Z, q.Real, q.Imag, q.Jmag, q.Kmag} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// worldAxis returns the rotation axis of the joint at serial index i, expressed in the root frame.
func worldAxis(chain *referenceframe.Chain, poses []spatial.Pose, i int) r3.Vector {
	j, err := chain.Joint(i)
	if err != nil {
		return r3.Vector{}
	}
	return spatial.RotateVector(poses[i].Orientation().Quaternion(), j.Axis())
}

func (b *solverBase) logOutcome(solver string, report *SolveReport) {
	if report.Converged {
		b.logger.Debugw("ik converged", "solver", solver, "iterations", report.Iterations)
		return
	}
	b.logger.Debugw("ik did not converge",
		"solver", solver,
		"iterations", report.Iterations,
		"position_error", report.PositionError,
		"orientation_error", report.OrientationError,
	)
}
