package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func randVec(rnd *rand.Rand) r3.Vector {
	return r3.Vector{X: rnd.Float64()*2 - 1, Y: rnd.Float64()*2 - 1, Z: rnd.Float64()*2 - 1}
}

func TestProjectOntoPlane(t *testing.T) {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := randVec(rnd).Mul(10)
		n := randVec(rnd).Mul(3)
		if n.Norm() < 1e-3 {
			continue
		}
		p := ProjectOntoPlane(v, n)
		test.That(t, p.Dot(n), test.ShouldAlmostEqual, 0, 1e-9)
		// the removed component lies along n
		test.That(t, v.Sub(p).Cross(n).Norm(), test.ShouldAlmostEqual, 0, 1e-9)
	}

	p := ProjectOntoPlane(r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{Z: 5})
	test.That(t, R3VectorAlmostEqual(p, r3.Vector{X: 1, Y: 2}, 1e-12), test.ShouldBeTrue)
}

func TestAngleTo(t *testing.T) {
	n := r3.Vector{Z: 1}
	test.That(t, AngleTo(r3.Vector{X: 1}, r3.Vector{Y: 1}, n), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, AngleTo(r3.Vector{Y: 1}, r3.Vector{X: 1}, n), test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, AngleTo(r3.Vector{X: 1}, r3.Vector{X: 2}, n), test.ShouldAlmostEqual, 0)
	test.That(t, AngleTo(r3.Vector{X: 1}, r3.Vector{X: -1, Y: 1}, n), test.ShouldAlmostEqual, 3*math.Pi/4)

	t.Run("antisymmetric", func(t *testing.T) {
		//nolint:gosec
		rnd := rand.New(rand.NewSource(2))
		for i := 0; i < 100; i++ {
			axis := randVec(rnd)
			a := ProjectOntoPlane(randVec(rnd), axis)
			b := ProjectOntoPlane(randVec(rnd), axis)
			test.That(t, AngleTo(a, b, axis), test.ShouldAlmostEqual, -AngleTo(b, a, axis), 1e-12)
		}
	})

	t.Run("rotating a by the angle lands on b", func(t *testing.T) {
		a := r3.Vector{Y: -1}
		b := r3.Vector{Y: 3, Z: 10}
		axis := r3.Vector{X: 1}
		angle := AngleTo(a, b, axis)
		rotated := RotateVector(NewR4AAFromAxis(angle, axis).ToQuat(), a)
		test.That(t, R3VectorAlmostEqual(rotated, b.Normalize(), 1e-9), test.ShouldBeTrue)
	})
}

func TestRotationBetweenVectors(t *testing.T) {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		a := randVec(rnd)
		b := randVec(rnd).Mul(4)
		o := RotationBetweenVectors(a, b)
		q := o.Quaternion()
		test.That(t, Norm(q)*Norm(q)+q.Real*q.Real, test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, R3VectorAlmostEqual(RotateVector(q, a.Normalize()), b.Normalize(), 1e-9), test.ShouldBeTrue)
	}

	t.Run("parallel", func(t *testing.T) {
		o := RotationBetweenVectors(r3.Vector{X: 1}, r3.Vector{X: 3})
		test.That(t, OrientationAlmostEqual(o, NewZeroOrientation()), test.ShouldBeTrue)
	})

	t.Run("antiparallel", func(t *testing.T) {
		for _, a := range []r3.Vector{{X: 1}, {Y: 2}, {Z: -1}, {X: 1, Y: 1, Z: 0.2}} {
			b := a.Mul(-1)
			q := RotationBetweenVectors(a, b).Quaternion()
			test.That(t, QuatToR4AA(q).Theta, test.ShouldAlmostEqual, math.Pi)
			test.That(t, R3VectorAlmostEqual(RotateVector(q, a), b, 1e-9), test.ShouldBeTrue)
		}
	})

	t.Run("zero", func(t *testing.T) {
		o := RotationBetweenVectors(r3.Vector{}, r3.Vector{X: 1})
		test.That(t, OrientationAlmostEqual(o, NewZeroOrientation()), test.ShouldBeTrue)
	})
}

func TestOrthonormalAxesFromForward(t *testing.T) {
	check := func(fwd r3.Vector) {
		right, up, f := OrthonormalAxesFromForward(fwd)
		test.That(t, R3VectorAlmostEqual(f, fwd.Normalize(), 1e-12), test.ShouldBeTrue)
		test.That(t, right.Norm(), test.ShouldAlmostEqual, 1)
		test.That(t, up.Norm(), test.ShouldAlmostEqual, 1)
		test.That(t, right.Dot(up), test.ShouldAlmostEqual, 0, 1e-12)
		test.That(t, right.Dot(f), test.ShouldAlmostEqual, 0, 1e-12)
		test.That(t, up.Dot(f), test.ShouldAlmostEqual, 0, 1e-12)
		// right-handed
		test.That(t, R3VectorAlmostEqual(right.Cross(up), f, 1e-9), test.ShouldBeTrue)
	}
	check(r3.Vector{Z: 1})
	check(r3.Vector{Z: -1})
	check(r3.Vector{X: 1, Y: 1})
	check(r3.Vector{Y: 1})
	check(r3.Vector{Y: -1})
	check(r3.Vector{X: 0.1, Y: 0.99})

	right, up, _ := OrthonormalAxesFromForward(r3.Vector{Z: 1})
	test.That(t, R3VectorAlmostEqual(right, r3.Vector{X: 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(up, r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)
}

func TestRotationFromForward(t *testing.T) {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		fwd := randVec(rnd)
		if fwd.Norm() < 1e-3 {
			continue
		}
		o := RotationFromForward(fwd)
		right, up, f := AxesFromRotation(o)
		wantR, wantU, wantF := OrthonormalAxesFromForward(fwd)
		test.That(t, R3VectorAlmostEqual(right, wantR, 1e-9), test.ShouldBeTrue)
		test.That(t, R3VectorAlmostEqual(up, wantU, 1e-9), test.ShouldBeTrue)
		test.That(t, R3VectorAlmostEqual(f, wantF, 1e-9), test.ShouldBeTrue)
	}
}
