package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.viam.com/test"

	spatial "go.viam.com/armik/spatialmath"
)

func TestConvertURDF(t *testing.T) {
	chain, err := ParseURDFFile("testurdf/elbow.urdf")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.JointNames(), test.ShouldResemble, []string{"shoulder", "elbow", "tool_mount"})
	test.That(t, chain.DoF(), test.ShouldEqual, 2)

	shoulder, err := chain.Joint(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, shoulder.Limit(), test.ShouldResemble, UnboundedLimit())

	elbow, err := chain.Joint(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, elbow.Axis(), test.ShouldResemble, r3.Vector{Y: 1})
	test.That(t, elbow.Limit().Min, test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, elbow.Limit().Max, test.ShouldAlmostEqual, math.Pi/2)

	ee, err := chain.EndEffector()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatial.R3VectorAlmostEqual(ee.Point(), r3.Vector{X: 0.4, Z: 0.5}, 1e-12), test.ShouldBeTrue)
}

func TestConvertURDFToConfig(t *testing.T) {
	mc, err := ModelConfigFromFile("testurdf/elbow.urdf")
	test.That(t, err, test.ShouldBeNil)
	lower, upper := -90., 90.
	expected := &ModelConfigJSON{
		Name: "elbow",
		Joints: []JointConfig{
			{ID: "shoulder", Parent: World, Type: RotationalJoint, Axis: r3.Vector{Z: 1}},
			{ID: "elbow", Parent: "shoulder", Type: RotationalJoint, Axis: r3.Vector{Y: 2}, Offset: r3.Vector{Z: 0.5}, Min: &lower, Max: &upper},
			{ID: "tool_mount", Parent: "elbow", Type: FixedJoint, Offset: r3.Vector{X: 0.4}},
		},
	}
	test.That(t, cmp.Diff(expected, mc, cmpopts.EquateApprox(0, 1e-9)), test.ShouldBeEmpty)
}

func TestConvertURDFErrors(t *testing.T) {
	_, err := ConvertURDFToConfig(nil, "")
	test.That(t, err, test.ShouldEqual, ErrNoModelInformation)

	_, err = ConvertURDFToConfig([]byte("<robot"), "")
	test.That(t, err, test.ShouldNotBeNil)

	rotated := []byte(`<robot name="r">
		<joint name="j" type="revolute">
			<parent link="a"/><child link="b"/>
			<origin xyz="0 0 1" rpy="0 1.57 0"/>
		</joint>
	</robot>`)
	_, err = ConvertURDFToConfig(rotated, "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "rotated origin")

	prismatic := []byte(`<robot name="p">
		<joint name="slide" type="prismatic"><parent link="a"/><child link="b"/></joint>
	</robot>`)
	_, err = ConvertURDFToConfig(prismatic, "")
	test.That(t, err, test.ShouldNotBeNil)

	badAxis := []byte(`<robot name="p">
		<joint name="j" type="revolute"><parent link="a"/><child link="b"/><axis xyz="0 1"/></joint>
	</robot>`)
	_, err = ConvertURDFToConfig(badAxis, "")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConvertURDFDefaults(t *testing.T) {
	data := []byte(`<robot name="bare">
		<joint name="j" type="revolute"><parent link="a"/><child link="b"/></joint>
	</robot>`)
	mc, err := ConvertURDFToConfig(data, "renamed")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mc.Name, test.ShouldEqual, "renamed")
	test.That(t, len(mc.Joints), test.ShouldEqual, 1)
	test.That(t, mc.Joints[0].Parent, test.ShouldEqual, World)
	test.That(t, mc.Joints[0].Axis, test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, mc.Joints[0].Offset, test.ShouldResemble, r3.Vector{})
}

func TestModelConfigFromFile(t *testing.T) {
	mc, err := ModelConfigFromFile("testurdf/elbow.urdf")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mc.Name, test.ShouldEqual, "elbow")

	mc, err = ModelConfigFromFile("testjson/planar.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(mc.Joints), test.ShouldEqual, 6)

	_, err = ModelConfigFromFile("testjson/missing.json")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ModelConfigFromFile("urdf.go")
	test.That(t, err, test.ShouldNotBeNil)
}
