package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose in space: a translation and an orientation. A Pose composed on the right
// of its parent maps points expressed in the child frame into the parent frame.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type basicPose struct {
	point       r3.Vector
	orientation quat.Number
}

// NewZeroPose returns a pose at (0,0,0) with no rotation.
func NewZeroPose() Pose {
	return &basicPose{orientation: quat.Number{Real: 1}}
}

// NewPose returns a pose at point with orientation o. A nil orientation is the zero orientation.
func NewPose(point r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(point)
	}
	return &basicPose{point: point, orientation: NewQuaternion(o.Quaternion()).Quaternion()}
}

// NewPoseFromPoint returns a pure translation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return &basicPose{point: point, orientation: quat.Number{Real: 1}}
}

// NewPoseFromOrientation returns a pure rotation.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

func (p *basicPose) Point() r3.Vector {
	return p.point
}

func (p *basicPose) Orientation() Orientation {
	q := quaternion(p.orientation)
	return &q
}

func (p *basicPose) String() string {
	aa := QuatToR4AA(p.orientation)
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f OX:%.4f OY:%.4f OZ:%.4f Theta:%.4f}",
		p.point.X, p.point.Y, p.point.Z, aa.RX, aa.RY, aa.RZ, aa.Theta)
}

// RotateVector rotates v by the unit quaternion q.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	u := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	t := u.Cross(v).Mul(2)
	return v.Add(t.Mul(q.Real)).Add(u.Cross(t))
}

// Compose returns the pose a∘b: b expressed in a's parent frame.
func Compose(a, b Pose) Pose {
	qa := a.Orientation().Quaternion()
	return &basicPose{
		point:       a.Point().Add(RotateVector(qa, b.Point())),
		orientation: quat.Mul(qa, b.Orientation().Quaternion()),
	}
}

// PoseInverse returns the pose that undoes p.
func PoseInverse(p Pose) Pose {
	qInv := quat.Conj(p.Orientation().Quaternion())
	return &basicPose{
		point:       RotateVector(qInv, p.Point()).Mul(-1),
		orientation: qInv,
	}
}

// PoseBetween returns the pose which, composed onto a, gives b: a∘PoseBetween(a, b) == b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// PoseDelta returns the world-frame difference from a to b: the translation b-a and the rotation
// that carries a's orientation onto b's.
func PoseDelta(a, b Pose) Pose {
	return &basicPose{
		point:       b.Point().Sub(a.Point()),
		orientation: OrientationBetween(a.Orientation(), b.Orientation()).Quaternion(),
	}
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-8)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same
// within the given translation tolerance.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}

// PoseAlmostCoincident will return a bool describing whether 2 poses approximately are at the same 3D coordinates.
func PoseAlmostCoincident(a, b Pose) bool {
	return PoseAlmostCoincidentEps(a, b, 1e-8)
}

// PoseAlmostCoincidentEps will return a bool describing whether 2 poses approximately are at the same 3D coordinates.
func PoseAlmostCoincidentEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return a.Sub(b).Norm() < epsilon
}
