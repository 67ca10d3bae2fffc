package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversion(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(5, -1, 1), test.ShouldEqual, 1.)
	test.That(t, Clamp(-5, -1, 1), test.ShouldEqual, -1.)
	test.That(t, Clamp(0.3, -1, 1), test.ShouldEqual, 0.3)
	test.That(t, Clamp(0.3, math.Inf(-1), math.Inf(1)), test.ShouldEqual, 0.3)
}

func TestWrapAngle(t *testing.T) {
	test.That(t, WrapAngle(3*math.Pi), test.ShouldAlmostEqual, math.Pi)
	test.That(t, WrapAngle(-math.Pi), test.ShouldAlmostEqual, math.Pi)
	test.That(t, WrapAngle(2*math.Pi+0.25), test.ShouldAlmostEqual, 0.25)
	test.That(t, WrapAngle(-2*math.Pi-0.25), test.ShouldAlmostEqual, -0.25)
	test.That(t, Float64AlmostEqual(WrapAngle(0), 0, 1e-12), test.ShouldBeTrue)
}
