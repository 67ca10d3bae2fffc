// Package arm ties a kinematic chain to an IK solver, and provides the built-in arm presets.
package arm

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/armik/ik"
	"go.viam.com/armik/logging"
	"go.viam.com/armik/referenceframe"
	spatial "go.viam.com/armik/spatialmath"
	"go.viam.com/armik/utils"
)

// Arm owns a chain and the solver that poses it. An Arm is not safe for concurrent use; the pole registry it
// may reference is.
type Arm struct {
	name   string
	chain  *referenceframe.Chain
	solver ik.Solver
	logger logging.Logger
}

// NewArm returns an arm over chain. A nil logger discards output.
func NewArm(name string, chain *referenceframe.Chain, solver ik.Solver, logger logging.Logger) (*Arm, error) {
	if chain == nil {
		return nil, ik.ErrNilChain
	}
	if solver == nil {
		return nil, errors.Errorf("arm %q needs a solver", name)
	}
	if logger == nil {
		logger = logging.NewBlankLogger(name)
	}
	return &Arm{name: name, chain: chain, solver: solver, logger: logger}, nil
}

// NewArmFromConfig validates conf, builds its chain and creates its solver.
func NewArmFromConfig(conf *Config, logger logging.Logger) (*Arm, error) {
	if conf == nil {
		return nil, referenceframe.ErrNoModelInformation
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config for arm %q", conf.Name)
	}
	joints, tip, err := conf.Model()
	if err != nil {
		return nil, err
	}
	chain, err := referenceframe.BuildChain(joints, tip)
	if err != nil {
		return nil, err
	}
	solverCfg, err := conf.SolverConfig()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger(conf.Name)
	}
	solver, err := ik.NewSolver(conf.Solver, solverCfg, logger.Sublogger("ik"))
	if err != nil {
		return nil, err
	}
	return NewArm(conf.Name, chain, solver, logger)
}

// Name returns the arm's name.
func (a *Arm) Name() string {
	return a.name
}

// Chain returns the arm's chain.
func (a *Arm) Chain() *referenceframe.Chain {
	return a.chain
}

// Solver returns the arm's solver.
func (a *Arm) Solver() ik.Solver {
	return a.solver
}

// SetPole biases subsequent solves so the joint at serial index jointIndex swings towards the pole held in
// reg under handle. Only the Jacobian solver supports poles.
func (a *Arm) SetPole(reg *ik.PoleRegistry, handle ik.PoleHandle, jointIndex int) error {
	js, ok := a.solver.(*ik.JacobianSolver)
	if !ok {
		return errors.Errorf("arm %q: solver %T does not support pole targets", a.name, a.solver)
	}
	if reg == nil {
		return errors.Errorf("arm %q: pole registry is nil", a.name)
	}
	if _, err := a.chain.Joint(jointIndex); err != nil {
		return err
	}
	js.SetPole(&ik.PoleTarget{Registry: reg, Handle: handle, JointIndex: jointIndex})
	return nil
}

// ClearPole removes any pole bias.
func (a *Arm) ClearPole() {
	if js, ok := a.solver.(*ik.JacobianSolver); ok {
		js.SetPole(nil)
	}
}

// Solve moves the arm towards target, given in the frame of the chain root, and refreshes the cached world
// transforms. A non-converged solve is not an error; see SolveReport.Err.
func (a *Arm) Solve(target spatial.Pose) (*ik.SolveReport, error) {
	report, err := a.solver.Solve(a.chain, target)
	a.chain.UpdateWorldTransforms()
	if err != nil {
		return report, errors.Wrapf(err, "arm %q", a.name)
	}
	if !report.Converged {
		a.logger.Debugw("target not reached", "arm", a.name, "report", report.String())
	}
	return report, nil
}

// JointValues returns the joint values along the serial path in radians.
func (a *Arm) JointValues() []float64 {
	return a.chain.JointValues()
}

// SetJointValues writes joint values in radians, one per joint on the serial path, and refreshes the cached
// world transforms.
func (a *Arm) SetJointValues(values []float64) error {
	if err := a.chain.SetJointValues(values); err != nil {
		return err
	}
	a.chain.UpdateWorldTransforms()
	return nil
}

// JointIndex returns the serial index of the named joint.
func (a *Arm) JointIndex(name string) (int, error) {
	idx := lo.IndexOf(a.chain.JointNames(), name)
	if idx < 0 {
		return 0, errors.Wrapf(referenceframe.ErrUnknownJoint, "%q is not on the path of arm %q", name, a.name)
	}
	return idx, nil
}

// JointPoses returns the world transform of every joint on the serial path, root first.
func (a *Arm) JointPoses() ([]spatial.Pose, error) {
	return a.chain.WorldTransforms()
}

// JointPositions returns the world position of every joint on the serial path, root first.
func (a *Arm) JointPositions() ([]r3.Vector, error) {
	poses, err := a.JointPoses()
	if err != nil {
		return nil, err
	}
	return lo.Map(poses, func(p spatial.Pose, _ int) r3.Vector { return p.Point() }), nil
}

// EndEffector returns the world transform of the tip.
func (a *Arm) EndEffector() (spatial.Pose, error) {
	return a.chain.EndEffector()
}

// String prints a table of the joints on the serial path, with columns of name, type, value, world position
// and world orientation.
func (a *Arm) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Joint", "Type", "Value (deg)", "Position", "Orientation"})
	values := a.chain.JointValues()
	for i, name := range a.chain.JointNames() {
		j, err := a.chain.Joint(i)
		if err != nil {
			continue
		}
		position, orientation := "", ""
		if pose, err := a.chain.WorldTransform(i); err == nil {
			pt := pose.Point()
			aa := pose.Orientation().AxisAngles()
			position = fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", pt.X, pt.Y, pt.Z)
			orientation = fmt.Sprintf("Th:%.2f, X:%.3f, Y:%.3f, Z:%.3f", utils.RadToDeg(aa.Theta), aa.RX, aa.RY, aa.RZ)
		}
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i),
			name,
			string(j.Type()),
			fmt.Sprintf("%.2f", utils.RadToDeg(values[i])),
			position,
			orientation,
		})
	}
	return t.Render()
}
