package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Above this |fwd·up| the default up reference is swapped out, roughly 26 degrees from vertical.
const upSwapThreshold = 0.9

var (
	xAxis = r3.Vector{X: 1}
	yAxis = r3.Vector{Y: 1}
	zAxis = r3.Vector{Z: 1}
)

// ProjectOntoPlane returns v minus its component along the plane normal n. n need not be unit length.
// n must not be the zero vector; that is not checked.
func ProjectOntoPlane(v, n r3.Vector) r3.Vector {
	return v.Sub(n.Mul(v.Dot(n) / n.Dot(n)))
}

// AngleTo computes the shortest signed angle from vector a to vector b, both lying on the plane with
// normal n. Positive angles are counterclockwise about n (right-handed). The result is in (-pi, pi].
func AngleTo(a, b, n r3.Vector) float64 {
	return math.Atan2(a.Cross(b).Dot(n), a.Dot(b))
}

// RotationBetweenVectors computes the shortest rotation carrying the direction of a onto the direction of b.
//
// When a and b are antiparallel every axis orthogonal to them gives a shortest rotation; a half turn
// about the axis orthogonal to a and to the basis vector least aligned with a is returned.
// A zero a or b gives no rotation.
func RotationBetweenVectors(a, b r3.Vector) Orientation {
	k := math.Sqrt(a.Norm2() * b.Norm2())
	if k == 0 {
		return NewZeroOrientation()
	}
	axis := a.Cross(b)
	q := quat.Number{Real: k + a.Dot(b), Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
	if quat.Abs(q) < 1e-9*k {
		ortho := a.Cross(leastAlignedBasis(a)).Normalize()
		return &quaternion{0, ortho.X, ortho.Y, ortho.Z}
	}
	return NewQuaternion(q)
}

func leastAlignedBasis(v r3.Vector) r3.Vector {
	x, y, z := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case x <= y && x <= z:
		return xAxis
	case y <= z:
		return yAxis
	default:
		return zAxis
	}
}

// OrthonormalAxesFromForward returns a right-handed orthonormal (right, up, fwd) triad for a forward vector.
// +Y is used as the reference up unless fwd is within about 26 degrees of it, in which case +X is used.
func OrthonormalAxesFromForward(fwd r3.Vector) (right, up, forward r3.Vector) {
	forward = fwd.Normalize()
	tempUp := yAxis
	if math.Abs(forward.Dot(tempUp)) > upSwapThreshold {
		tempUp = xAxis
	}
	right = tempUp.Cross(forward).Normalize()
	up = forward.Cross(right).Normalize()
	return right, up, forward
}

// RotationFromAxes builds the rotation that maps +X to right, +Y to up and +Z to fwd. The three vectors
// are assumed orthonormal and right-handed; that is not checked.
func RotationFromAxes(right, up, fwd r3.Vector) Orientation {
	// row-major, columns are the images of the basis vectors
	m := [9]float64{
		right.X, up.X, fwd.X,
		right.Y, up.Y, fwd.Y,
		right.Z, up.Z, fwd.Z,
	}
	return NewQuaternion(matToQuat(m))
}

// RotationFromForward creates a rotation that points +Z in the given forward direction.
func RotationFromForward(fwd r3.Vector) Orientation {
	return RotationFromAxes(OrthonormalAxesFromForward(fwd))
}

// AxesFromRotation returns the images of +X, +Y and +Z under o.
func AxesFromRotation(o Orientation) (right, up, fwd r3.Vector) {
	q := o.Quaternion()
	return RotateVector(q, xAxis), RotateVector(q, yAxis), RotateVector(q, zAxis)
}

// matToQuat converts a row-major rotation matrix to a quaternion.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/matrixToQuaternion/
func matToQuat(m [9]float64) quat.Number {
	m00, m01, m02 := m[0], m[1], m[2]
	m10, m11, m12 := m[3], m[4], m[5]
	m20, m21, m22 := m[6], m[7], m[8]

	tr := m00 + m11 + m22
	switch {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1)
		return quat.Number{Real: 0.25 / s, Imag: (m21 - m12) * s, Jmag: (m02 - m20) * s, Kmag: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		return quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		return quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		return quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
}
