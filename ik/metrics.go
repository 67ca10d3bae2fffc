package ik

import (
	"github.com/golang/geo/r3"

	spatial "go.viam.com/armik/spatialmath"
	"go.viam.com/armik/utils"
)

// PoseError measures how far current is from target. pos is the euclidean distance between the points and
// orient the angle of the shortest rotation between the orientations, in radians. e stacks the position
// delta and the rotation vector, target minus current, as consumed by the Jacobian step.
func PoseError(current, target spatial.Pose) (pos, orient float64, e [6]float64) {
	delta := spatial.PoseDelta(current, target)
	dp := delta.Point()
	dr := spatial.QuatToR3AA(delta.Orientation().Quaternion())
	e = [6]float64{dp.X, dp.Y, dp.Z, dr.X, dr.Y, dr.Z}
	return dp.Norm(), dr.Norm(), e
}

// OrientDist returns the arclength between two orientations in degrees.
func OrientDist(o1, o2 spatial.Orientation) float64 {
	return utils.RadToDeg(spatial.QuatToR3AA(spatial.OrientationBetween(o1, o2).Quaternion()).Norm())
}

// withinThreshold reports whether both errors are inside the config's allowances.
func withinThreshold(cfg Config, pos, orient float64) bool {
	return pos <= cfg.AllowableTargetDistance && orient <= cfg.AllowableTargetAngle
}

func rotationError(e [6]float64) r3.Vector {
	return r3.Vector{X: e[3], Y: e[4], Z: e[5]}
}
