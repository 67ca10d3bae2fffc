// Package referenceframe defines the joint graph of an articulated arm and does the forward kinematics
// of translating joint values into world poses.
package referenceframe

import (
	"math"

	"github.com/golang/geo/r3"

	spatial "go.viam.com/armik/spatialmath"
)

// NodeID is a stable handle to a joint in a Tree.
type NodeID int

// NoParent is the parent of a root joint.
const NoParent NodeID = -1

// JointType tags the kind of a joint. Code switching on it should handle every value below.
type JointType string

// The joint types a chain can be made of.
const (
	// FixedJoint contributes no degree of freedom.
	FixedJoint JointType = "fixed"
	// RotationalJoint contributes one angle, in radians, about the joint's axis.
	RotationalJoint JointType = "revolute"
)

// Limit represents the limits of motion for a joint.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// UnboundedLimit is the limit of a joint that may spin freely.
func UnboundedLimit() Limit {
	return Limit{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Joint is a single node of a joint tree. Its type, axis and offset are fixed at construction; only its
// value changes, and only through the Chain that owns it.
type Joint struct {
	name      string
	jointType JointType
	axis      r3.Vector
	offset    r3.Vector
	limit     Limit
	value     float64

	parent   NodeID
	children []NodeID
	claimed  bool
}

// Name returns the name of the joint.
func (j *Joint) Name() string {
	return j.name
}

// Type returns the joint type.
func (j *Joint) Type() JointType {
	return j.jointType
}

// Axis returns the unit rotation axis in the joint's local frame; zero for fixed joints.
func (j *Joint) Axis() r3.Vector {
	return j.axis
}

// Offset returns the translation applied before the joint's own rotation.
func (j *Joint) Offset() r3.Vector {
	return j.offset
}

// Limit returns the joint's value limit.
func (j *Joint) Limit() Limit {
	return j.limit
}

// Value returns the current joint value. Always 0 for fixed joints.
func (j *Joint) Value() float64 {
	return j.value
}

// Parent returns the parent handle, or NoParent.
func (j *Joint) Parent() NodeID {
	return j.parent
}

// Children returns a copy of the ordered child handles.
func (j *Joint) Children() []NodeID {
	return append([]NodeID(nil), j.children...)
}

// DoF is 1 for rotational joints and 0 otherwise.
func (j *Joint) DoF() int {
	if j.jointType == RotationalJoint {
		return 1
	}
	return 0
}

// clamp restricts v to the joint's limit.
func (j *Joint) clamp(v float64) float64 {
	return math.Max(j.limit.Min, math.Min(j.limit.Max, v))
}

// LocalTransform is the joint's pose in its parent's frame for the given value: the offset translation
// composed with the rotation by value about the axis.
func (j *Joint) LocalTransform(value float64) spatial.Pose {
	switch j.jointType {
	case RotationalJoint:
		return spatial.NewPose(j.offset, spatial.NewR4AAFromAxis(value, j.axis))
	case FixedJoint:
		return spatial.NewPoseFromPoint(j.offset)
	default:
		return spatial.NewPoseFromPoint(j.offset)
	}
}
