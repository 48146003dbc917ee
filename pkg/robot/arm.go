package robot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polibarobotics/niryodraw/pkg/niryo"
)

// Controller commands used by Arm.
const (
	cmdCalibrate       = "CALIBRATE"
	cmdNeedCalibration = "NEED_CALIBRATION"
	cmdGetPose         = "GET_POSE"
	cmdMovePose        = "MOVE_POSE"
	cmdExecTrajectory  = "EXECUTE_TRAJECTORY_FROM_POSES"
)

// Arm represents a session with a network-connected robot arm.
type Arm struct {
	conn   *niryo.Conn
	logger *slog.Logger
}

// NewArm connects to the arm's controller.
func NewArm(ctx context.Context, cfg ArmConfig, logger *slog.Logger) (*Arm, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := niryo.Dial(ctx, cfg.Address, cfg.Port, niryo.Options{
		ConnectTimeout: time.Duration(cfg.ConnectTimeout),
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &Arm{conn: conn, logger: logger}, nil
}

// Close closes the arm's connection.
func (a *Arm) Close() error {
	return a.conn.Close()
}

// Pose reads the current end-effector pose.
func (a *Arm) Pose(ctx context.Context) (Pose, error) {
	resp, err := a.conn.Call(ctx, cmdGetPose)
	if err != nil {
		return Pose{}, fmt.Errorf("read pose: %w", err)
	}

	values := make([]float64, len(resp.Params))
	for i := range resp.Params {
		if err := resp.Decode(i, &values[i]); err != nil {
			return Pose{}, fmt.Errorf("read pose: %w", err)
		}
	}
	return PoseFromValues(values)
}

// MovePose moves the end effector to p.
func (a *Arm) MovePose(ctx context.Context, p Pose) error {
	a.logger.Info("move pose", "pose", p.String())
	if _, err := a.conn.Call(ctx, cmdMovePose, p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw); err != nil {
		return fmt.Errorf("move pose: %w", err)
	}
	return nil
}

// ExecuteTrajectoryFromPoses runs the poses in order as a single trajectory.
// distSmoothing is the blending distance around each waypoint, in metres.
func (a *Arm) ExecuteTrajectoryFromPoses(ctx context.Context, poses []Pose, distSmoothing float64) error {
	list := make([][]float64, len(poses))
	for i, p := range poses {
		list[i] = p.Values()
	}

	a.logger.Info("execute trajectory", "waypoints", len(poses), "dist_smoothing", distSmoothing)
	if _, err := a.conn.Call(ctx, cmdExecTrajectory, list, distSmoothing); err != nil {
		return fmt.Errorf("execute trajectory: %w", err)
	}
	return nil
}
