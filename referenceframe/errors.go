package referenceframe

import (
	"github.com/pkg/errors"
)

var (
	// ErrCircularReference is returned when a connection or a joint config would make a joint its own ancestor.
	ErrCircularReference = errors.New("circular reference in joint topology")

	// ErrAlreadyParented is returned by Connect when a child already has a parent.
	ErrAlreadyParented = errors.New("joint already has a parent")

	// ErrJointInUse is returned when a joint is claimed by a chain and cannot be reused or reconnected.
	ErrJointInUse = errors.New("joint already belongs to a chain")

	// ErrBranchingTree is returned when a serial path cannot be derived without an explicit tip.
	ErrBranchingTree = errors.New("joint tree branches, an explicit tip is required")

	// ErrTipNotInChain is returned when the requested tip is not a descendant of the root.
	ErrTipNotInChain = errors.New("tip is not reachable from root")

	// ErrStaleTransform is returned when a world transform is read after a joint value changed and before
	// UpdateWorldTransforms was called.
	ErrStaleTransform = errors.New("world transform is stale, call UpdateWorldTransforms")

	// ErrZeroAxis is returned for a rotational joint declared with a zero axis.
	ErrZeroAxis = errors.New("cannot use zero vector as rotation axis")

	// ErrNeedOneRoot is returned when joint specs do not describe exactly one root.
	ErrNeedOneRoot = errors.New("joint specs must have exactly one root")

	// ErrDuplicateJoint is returned when two joints share a name.
	ErrDuplicateJoint = errors.New("duplicate joint name")

	// ErrParentNotFound is returned when a joint config names a parent that does not exist.
	ErrParentNotFound = errors.New("parent joint not found")

	// ErrUnknownJoint is returned for a NodeID that does not belong to the tree.
	ErrUnknownJoint = errors.New("unknown joint")

	// ErrNoModelInformation is used when there is no model information.
	ErrNoModelInformation = errors.New("no model information")

	// ErrReservedWord is returned when a joint config uses a reserved id.
	ErrReservedWord = errors.New("reserved word")
)

// NewUnknownJointError returns an error naming the unknown node.
func NewUnknownJointError(id NodeID) error {
	return errors.Wrapf(ErrUnknownJoint, "node %d", id)
}

// NewParentNotFoundError returns an error indicating a joint config names a parent that does not exist.
func NewParentNotFoundError(joint, parent string) error {
	return errors.Wrapf(ErrParentNotFound, "parent %q of joint %q", parent, joint)
}

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the chain.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match chain length, have %d, expected %d", actual, expected)
}

// NewIndexOutOfRangeError returns an error for a serial-path index outside the chain.
func NewIndexOutOfRangeError(index, length int) error {
	return errors.Errorf("joint index %d out of range for chain of length %d", index, length)
}

// NewUnsupportedJointTypeError returns an error indicating that a given joint type is not supported.
func NewUnsupportedJointTypeError(jointType JointType) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}
