package referenceframe

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestAddJoint(t *testing.T) {
	tree := NewTree()
	a, err := tree.AddRotational("a", r3.Vector{Z: 3}, r3.Vector{X: 1})
	test.That(t, err, test.ShouldBeNil)
	j, err := tree.Joint(a)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.Axis(), test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, j.Offset(), test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, j.Value(), test.ShouldEqual, 0.)
	test.That(t, j.Parent(), test.ShouldEqual, NoParent)
	test.That(t, j.DoF(), test.ShouldEqual, 1)

	f, err := tree.AddJoint("f", FixedJoint, r3.Vector{X: 1}, r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	j, err = tree.Joint(f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.Axis(), test.ShouldResemble, r3.Vector{})
	test.That(t, j.DoF(), test.ShouldEqual, 0)

	_, err = tree.AddRotational("a", r3.Vector{Z: 1}, r3.Vector{})
	test.That(t, errors.Is(err, ErrDuplicateJoint), test.ShouldBeTrue)

	_, err = tree.AddRotational("zero", r3.Vector{}, r3.Vector{})
	test.That(t, errors.Is(err, ErrZeroAxis), test.ShouldBeTrue)

	_, err = tree.AddJoint("p", JointType("prismatic"), r3.Vector{Z: 1}, r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)

	id, ok := tree.Lookup("f")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, id, test.ShouldEqual, f)
	_, ok = tree.Lookup("zero")
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, tree.Len(), test.ShouldEqual, 2)

	_, err = tree.Joint(NodeID(7))
	test.That(t, errors.Is(err, ErrUnknownJoint), test.ShouldBeTrue)
}

func TestConnect(t *testing.T) {
	tree := NewTree()
	a, _ := tree.AddFixed("a", r3.Vector{})
	b, _ := tree.AddFixed("b", r3.Vector{})
	c, _ := tree.AddFixed("c", r3.Vector{})
	d, _ := tree.AddFixed("d", r3.Vector{})

	test.That(t, tree.Connect(a, b, c), test.ShouldBeNil)
	ja, _ := tree.Joint(a)
	jb, _ := tree.Joint(b)
	jc, _ := tree.Joint(c)
	test.That(t, ja.Children(), test.ShouldResemble, []NodeID{b})
	test.That(t, jb.Parent(), test.ShouldEqual, a)
	test.That(t, jc.Parent(), test.ShouldEqual, b)

	t.Run("already parented", func(t *testing.T) {
		err := tree.Connect(d, b)
		test.That(t, errors.Is(err, ErrAlreadyParented), test.ShouldBeTrue)
	})

	t.Run("cycles", func(t *testing.T) {
		test.That(t, tree.Connect(c, a), test.ShouldEqual, ErrCircularReference)
		test.That(t, tree.Connect(d, d), test.ShouldEqual, ErrCircularReference)
		// a loop closed within a single call
		e, _ := tree.AddFixed("e", r3.Vector{})
		f, _ := tree.AddFixed("f", r3.Vector{})
		test.That(t, tree.Connect(e, f, e), test.ShouldEqual, ErrCircularReference)
	})

	t.Run("failure leaves tree unchanged", func(t *testing.T) {
		g, _ := tree.AddFixed("g", r3.Vector{})
		err := tree.Connect(d, g, b)
		test.That(t, errors.Is(err, ErrAlreadyParented), test.ShouldBeTrue)
		jd, _ := tree.Joint(d)
		jg, _ := tree.Joint(g)
		test.That(t, jd.Children(), test.ShouldBeEmpty)
		test.That(t, jg.Parent(), test.ShouldEqual, NoParent)
	})

	t.Run("extending a parented joint", func(t *testing.T) {
		h, _ := tree.AddFixed("h", r3.Vector{})
		test.That(t, tree.Connect(c, h), test.ShouldBeNil)
		jh, _ := tree.Joint(h)
		test.That(t, jh.Parent(), test.ShouldEqual, c)
		// only the joints gaining a parent are checked
		err := tree.Connect(c, h)
		test.That(t, errors.Is(err, ErrAlreadyParented), test.ShouldBeTrue)
	})

	t.Run("branching", func(t *testing.T) {
		test.That(t, tree.Connect(a, d), test.ShouldBeNil)
		ja, _ := tree.Joint(a)
		test.That(t, ja.Children(), test.ShouldResemble, []NodeID{b, d})
	})

	t.Run("unknown", func(t *testing.T) {
		err := tree.Connect(a, NodeID(100))
		test.That(t, errors.Is(err, ErrUnknownJoint), test.ShouldBeTrue)
	})
}

func TestSetLimit(t *testing.T) {
	tree := NewTree()
	a, _ := tree.AddRotational("a", r3.Vector{Z: 1}, r3.Vector{})
	test.That(t, tree.SetLimit(a, Limit{Min: 1, Max: 0}), test.ShouldNotBeNil)
	test.That(t, tree.SetLimit(a, Limit{Min: 0.5, Max: 1}), test.ShouldBeNil)
	j, _ := tree.Joint(a)
	test.That(t, j.Limit(), test.ShouldResemble, Limit{Min: 0.5, Max: 1})
	// the zero value is pulled into range
	test.That(t, j.Value(), test.ShouldEqual, 0.5)

	_, err := NewChain(tree, a)
	test.That(t, err, test.ShouldBeNil)
	err = tree.SetLimit(a, Limit{Min: 0, Max: 1})
	test.That(t, errors.Is(err, ErrJointInUse), test.ShouldBeTrue)
}
