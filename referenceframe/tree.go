package referenceframe

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Tree is an arena of joints. Joints are addressed by NodeID; parent and child links are plain handles
// into the arena, so the tree is acyclic and every joint has at most one parent.
type Tree struct {
	joints []*Joint
	names  map[string]NodeID
}

// NewTree returns an empty joint tree.
func NewTree() *Tree {
	return &Tree{names: map[string]NodeID{}}
}

// AddJoint adds an unconnected joint to the tree. Rotational axes are normalized; fixed joints discard theirs.
// The new joint has value 0 and no limit.
func (t *Tree) AddJoint(name string, jointType JointType, axis, offset r3.Vector) (NodeID, error) {
	if name != "" {
		if _, ok := t.names[name]; ok {
			return NoParent, errors.Wrap(ErrDuplicateJoint, name)
		}
	}
	switch jointType {
	case RotationalJoint:
		if axis.Norm2() == 0 {
			return NoParent, errors.Wrapf(ErrZeroAxis, "joint %q", name)
		}
		axis = axis.Normalize()
	case FixedJoint:
		axis = r3.Vector{}
	default:
		return NoParent, NewUnsupportedJointTypeError(jointType)
	}

	id := NodeID(len(t.joints))
	t.joints = append(t.joints, &Joint{
		name:      name,
		jointType: jointType,
		axis:      axis,
		offset:    offset,
		limit:     UnboundedLimit(),
		parent:    NoParent,
	})
	if name != "" {
		t.names[name] = id
	}
	return id, nil
}

// AddFixed adds a fixed joint at the given offset from its future parent.
func (t *Tree) AddFixed(name string, offset r3.Vector) (NodeID, error) {
	return t.AddJoint(name, FixedJoint, r3.Vector{}, offset)
}

// AddRotational adds a rotational joint about axis at the given offset from its future parent.
func (t *Tree) AddRotational(name string, axis, offset r3.Vector) (NodeID, error) {
	return t.AddJoint(name, RotationalJoint, axis, offset)
}

// SetLimit sets the value limit of a joint. Limits are fixed once a chain claims the joint. Fixed joints
// ignore limits.
func (t *Tree) SetLimit(id NodeID, limit Limit) error {
	j, err := t.Joint(id)
	if err != nil {
		return err
	}
	if j.claimed {
		return errors.Wrapf(ErrJointInUse, "joint %q", j.name)
	}
	if limit.Min > limit.Max {
		return errors.Errorf("joint %q limit min %v is greater than max %v", j.name, limit.Min, limit.Max)
	}
	j.limit = limit
	if j.jointType == RotationalJoint {
		j.value = j.clamp(j.value)
	}
	return nil
}

// Joint returns the joint with the given handle.
func (t *Tree) Joint(id NodeID) (*Joint, error) {
	if id < 0 || int(id) >= len(t.joints) {
		return nil, NewUnknownJointError(id)
	}
	return t.joints[id], nil
}

// Lookup returns the handle of the named joint.
func (t *Tree) Lookup(name string) (NodeID, bool) {
	id, ok := t.names[name]
	return id, ok
}

// Len returns the number of joints in the tree.
func (t *Tree) Len() int {
	return len(t.joints)
}

// Connect links the given joints in order: the first becomes parent of the second, the second of the third,
// and so on. Every joint after the first must not have a parent yet; the first may, which is how an existing
// branch is extended. Each link is checked before any is made, so a failed Connect leaves the tree unchanged.
func (t *Tree) Connect(ids ...NodeID) error {
	for _, id := range ids {
		j, err := t.Joint(id)
		if err != nil {
			return err
		}
		if j.claimed {
			return errors.Wrapf(ErrJointInUse, "joint %q", j.name)
		}
	}
	seen := map[NodeID]bool{}
	for i := 1; i < len(ids); i++ {
		parent, child := ids[i-1], ids[i]
		if t.joints[child].parent != NoParent || seen[child] {
			return errors.Wrapf(ErrAlreadyParented, "joint %q", t.joints[child].name)
		}
		seen[child] = true
		if parent == child || t.isAncestor(child, parent) || t.linkedAbove(ids[:i], child) {
			return ErrCircularReference
		}
	}
	for i := 1; i < len(ids); i++ {
		parent, child := ids[i-1], ids[i]
		t.joints[child].parent = parent
		t.joints[parent].children = append(t.joints[parent].children, child)
	}
	return nil
}

// isAncestor reports whether anc is id or one of its ancestors in the committed tree.
func (t *Tree) isAncestor(anc, id NodeID) bool {
	for cur := id; cur != NoParent; cur = t.joints[cur].parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// linkedAbove reports whether child is already an ancestor of any joint in the pending prefix, which would
// close a loop once the pending links are committed.
func (t *Tree) linkedAbove(pending []NodeID, child NodeID) bool {
	for _, id := range pending {
		if t.isAncestor(child, id) {
			return true
		}
	}
	return false
}

// roots returns every joint without a parent, in insertion order.
func (t *Tree) roots() []NodeID {
	var out []NodeID
	for i, j := range t.joints {
		if j.parent == NoParent {
			out = append(out, NodeID(i))
		}
	}
	return out
}
