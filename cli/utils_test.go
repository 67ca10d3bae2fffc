package cli

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestParseFloats(t *testing.T) {
	v, err := parseFloats("1, -2.5,3e-1", -1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, []float64{1, -2.5, 0.3})

	_, err = parseFloats("1,2", 3)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = parseFloats("1,x,3", 3)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = parseFloats("", -1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseVector(t *testing.T) {
	v, err := parseVector("0,-1,10")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, r3.Vector{Y: -1, Z: 10})
}

func TestParseTarget(t *testing.T) {
	p, err := parseTarget("1,2,3", "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, p.Orientation().Quaternion().Real, test.ShouldAlmostEqual, 1)

	p, err = parseTarget("0,0,0", "3.141592653589793,0,0,2")
	test.That(t, err, test.ShouldBeNil)
	aa := p.Orientation().AxisAngles()
	test.That(t, aa.RZ, test.ShouldAlmostEqual, 1)
	test.That(t, aa.Theta, test.ShouldAlmostEqual, 3.141592653589793)

	_, err = parseTarget("0,0,0", "1,0,0,0")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = parseTarget("0,0", "")
	test.That(t, err, test.ShouldNotBeNil)
}
