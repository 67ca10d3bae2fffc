package referenceframe

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	spatial "go.viam.com/armik/spatialmath"
)

// Chain is a serial path through a joint tree, from a root joint to a tip, together with cached world
// transforms for every joint beneath the root. A chain exclusively owns all of those joints: their values
// only change through the chain, and a joint may belong to at most one chain.
//
// Writing a joint value marks that joint and all of its descendants dirty. Reading a dirty world transform
// fails with ErrStaleTransform until UpdateWorldTransforms is called.
type Chain struct {
	tree *Tree
	root NodeID

	// serial path, root first
	path []NodeID

	// every owned node in depth-first pre-order, so parents precede children
	order       []NodeID
	local       map[NodeID]int
	parentLocal []int
	subtreeEnd  []int
	world       []spatial.Pose
	dirty       []bool

	rotational []int
}

// NewChain claims the subtree beneath root and derives the serial path by following the single child of each
// joint. It fails with ErrBranchingTree when some joint on the way has more than one child.
func NewChain(tree *Tree, root NodeID) (*Chain, error) {
	if _, err := tree.Joint(root); err != nil {
		return nil, err
	}
	path := []NodeID{root}
	for cur := root; ; {
		children := tree.joints[cur].children
		if len(children) == 0 {
			break
		}
		if len(children) > 1 {
			return nil, errors.Wrapf(ErrBranchingTree, "joint %q has %d children", tree.joints[cur].name, len(children))
		}
		cur = children[0]
		path = append(path, cur)
	}
	return newChain(tree, root, path)
}

// NewChainToTip claims the subtree beneath root and uses the unique path from root to tip as the serial path.
func NewChainToTip(tree *Tree, root, tip NodeID) (*Chain, error) {
	if _, err := tree.Joint(root); err != nil {
		return nil, err
	}
	if _, err := tree.Joint(tip); err != nil {
		return nil, err
	}
	if !tree.isAncestor(root, tip) {
		return nil, errors.Wrapf(ErrTipNotInChain, "tip %q, root %q", tree.joints[tip].name, tree.joints[root].name)
	}
	var path []NodeID
	for cur := tip; cur != root; cur = tree.joints[cur].parent {
		path = append(path, cur)
	}
	path = append(path, root)
	slices.Reverse(path)
	return newChain(tree, root, path)
}

func newChain(tree *Tree, root NodeID, path []NodeID) (*Chain, error) {
	c := &Chain{
		tree:  tree,
		root:  root,
		path:  path,
		local: map[NodeID]int{},
	}

	var visit func(id NodeID, parent int) error
	visit = func(id NodeID, parent int) error {
		j := tree.joints[id]
		if j.claimed {
			return errors.Wrapf(ErrJointInUse, "joint %q", j.name)
		}
		idx := len(c.order)
		c.local[id] = idx
		c.order = append(c.order, id)
		c.parentLocal = append(c.parentLocal, parent)
		c.subtreeEnd = append(c.subtreeEnd, 0)
		for _, child := range j.children {
			if err := visit(child, idx); err != nil {
				return err
			}
		}
		c.subtreeEnd[idx] = len(c.order)
		return nil
	}
	if err := visit(root, -1); err != nil {
		return nil, err
	}

	for _, id := range c.order {
		tree.joints[id].claimed = true
	}
	c.world = make([]spatial.Pose, len(c.order))
	c.dirty = make([]bool, len(c.order))
	for i := range c.dirty {
		c.dirty[i] = true
	}
	for i, id := range path {
		if tree.joints[id].jointType == RotationalJoint {
			c.rotational = append(c.rotational, i)
		}
	}
	c.UpdateWorldTransforms()
	return c, nil
}

// Len returns the number of joints on the serial path.
func (c *Chain) Len() int {
	return len(c.path)
}

// DoF returns the number of rotational joints on the serial path.
func (c *Chain) DoF() int {
	return len(c.rotational)
}

// RotationalIndices returns the serial indices of the rotational joints, root first.
func (c *Chain) RotationalIndices() []int {
	return append([]int(nil), c.rotational...)
}

// Tree returns the tree the chain was built from.
func (c *Chain) Tree() *Tree {
	return c.tree
}

// Root returns the handle of the root joint.
func (c *Chain) Root() NodeID {
	return c.root
}

// Path returns the handles of the serial path, root first.
func (c *Chain) Path() []NodeID {
	return append([]NodeID(nil), c.path...)
}

// JointNames returns the names along the serial path.
func (c *Chain) JointNames() []string {
	return lo.Map(c.path, func(id NodeID, _ int) string { return c.tree.joints[id].name })
}

// Joint returns the joint at serial index i.
func (c *Chain) Joint(i int) (*Joint, error) {
	if i < 0 || i >= len(c.path) {
		return nil, NewIndexOutOfRangeError(i, len(c.path))
	}
	return c.tree.joints[c.path[i]], nil
}

// IndexOf returns the serial index of the node, or false if it is not on the serial path.
func (c *Chain) IndexOf(id NodeID) (int, bool) {
	return lo.IndexOf(c.path, id), lo.Contains(c.path, id)
}

// Owns reports whether the node is part of the subtree claimed by this chain.
func (c *Chain) Owns(id NodeID) bool {
	_, ok := c.local[id]
	return ok
}

// JointValues returns the values along the serial path. Fixed joints report 0.
func (c *Chain) JointValues() []float64 {
	return lo.Map(c.path, func(id NodeID, _ int) float64 { return c.tree.joints[id].value })
}

// SetJointValues writes every rotational joint on the serial path, clamped to its limit. Entries for fixed
// joints are ignored. values must have Len() entries.
func (c *Chain) SetJointValues(values []float64) error {
	if len(values) != len(c.path) {
		return NewIncorrectDoFError(len(values), len(c.path))
	}
	for _, i := range c.rotational {
		c.setValue(i, values[i])
	}
	return nil
}

// SetJointValue writes the value of the joint at serial index i, clamped to its limit. Writing a non-zero value
// to a fixed joint is an error.
func (c *Chain) SetJointValue(i int, value float64) error {
	j, err := c.Joint(i)
	if err != nil {
		return err
	}
	if j.jointType != RotationalJoint {
		if value != 0 {
			return errors.Errorf("cannot set value %v on fixed joint %q", value, j.name)
		}
		return nil
	}
	c.setValue(i, value)
	return nil
}

// ClampValue restricts v to the limit of the joint at serial index i. Out-of-range indices return v.
func (c *Chain) ClampValue(i int, v float64) float64 {
	if i < 0 || i >= len(c.path) {
		return v
	}
	return c.tree.joints[c.path[i]].clamp(v)
}

func (c *Chain) setValue(i int, value float64) {
	id := c.path[i]
	j := c.tree.joints[id]
	value = j.clamp(value)
	if value == j.value {
		return
	}
	j.value = value
	c.markDirty(c.local[id])
}

// markDirty flags a node and all of its descendants. Descendants are contiguous in pre-order.
func (c *Chain) markDirty(idx int) {
	for k := idx; k < c.subtreeEnd[idx]; k++ {
		c.dirty[k] = true
	}
}

// UpdateWorldTransforms recomputes the world transform of every dirty node from its parent's world transform
// and its own local transform. The root's parent transform is the identity.
func (c *Chain) UpdateWorldTransforms() {
	for i, id := range c.order {
		if !c.dirty[i] {
			continue
		}
		j := c.tree.joints[id]
		local := j.LocalTransform(j.value)
		if p := c.parentLocal[i]; p >= 0 {
			c.world[i] = spatial.Compose(c.world[p], local)
		} else {
			c.world[i] = local
		}
		c.dirty[i] = false
	}
}

// WorldTransform returns the cached world transform of the joint at serial index i.
func (c *Chain) WorldTransform(i int) (spatial.Pose, error) {
	if i < 0 || i >= len(c.path) {
		return nil, NewIndexOutOfRangeError(i, len(c.path))
	}
	return c.NodeWorldTransform(c.path[i])
}

// NodeWorldTransform returns the cached world transform of any node owned by the chain, including nodes on
// side branches off the serial path.
func (c *Chain) NodeWorldTransform(id NodeID) (spatial.Pose, error) {
	idx, ok := c.local[id]
	if !ok {
		return nil, errors.Wrapf(NewUnknownJointError(id), "not owned by chain rooted at %q", c.tree.joints[c.root].name)
	}
	if c.dirty[idx] {
		return nil, errors.Wrapf(ErrStaleTransform, "joint %q", c.tree.joints[id].name)
	}
	return c.world[idx], nil
}

// WorldTransforms returns the cached world transforms along the serial path.
func (c *Chain) WorldTransforms() ([]spatial.Pose, error) {
	poses := make([]spatial.Pose, 0, len(c.path))
	for i := range c.path {
		p, err := c.WorldTransform(i)
		if err != nil {
			return nil, err
		}
		poses = append(poses, p)
	}
	return poses, nil
}

// EndEffector returns the world transform of the last joint on the serial path.
func (c *Chain) EndEffector() (spatial.Pose, error) {
	return c.WorldTransform(len(c.path) - 1)
}

// ForwardPath computes serial-path world transforms for hypothetical values without touching the chain's
// state. Entries of poses before from are taken as already correct; poses[from:] are overwritten. values and
// poses must both have Len() entries.
func (c *Chain) ForwardPath(values []float64, poses []spatial.Pose, from int) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(c.path); i++ {
		j := c.tree.joints[c.path[i]]
		v := 0.
		if j.jointType == RotationalJoint {
			v = values[i]
		}
		local := j.LocalTransform(v)
		if i == 0 {
			poses[i] = local
		} else {
			poses[i] = spatial.Compose(poses[i-1], local)
		}
	}
}
