// Package robot provides a session with a Niryo arm and the types its
// commands take.
package robot

import (
	"fmt"
)

// Pose is an end-effector target: position in metres, orientation in radians.
type Pose struct {
	X, Y, Z          float64
	Roll, Pitch, Yaw float64
}

// Values returns the pose as [x, y, z, roll, pitch, yaw].
func (p Pose) Values() []float64 {
	return []float64{p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw}
}

// PoseFromValues builds a pose from [x, y, z, roll, pitch, yaw].
func PoseFromValues(v []float64) (Pose, error) {
	if len(v) != 6 {
		return Pose{}, fmt.Errorf("pose needs 6 values, got %d", len(v))
	}
	return Pose{X: v[0], Y: v[1], Z: v[2], Roll: v[3], Pitch: v[4], Yaw: v[5]}, nil
}

func (p Pose) String() string {
	return fmt.Sprintf("(x=%.4f y=%.4f z=%.4f roll=%.3f pitch=%.3f yaw=%.3f)",
		p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw)
}
