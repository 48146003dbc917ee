// Package draw runs the calibrate-then-dispatch sequence on a robot arm.
package draw

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/polibarobotics/niryodraw/pkg/robot"
	"github.com/polibarobotics/niryodraw/pkg/tracing"
)

// Robot is the subset of a robot session the sequence needs.
// *robot.Arm satisfies it.
type Robot interface {
	CalibrateAuto(ctx context.Context) error
	MovePose(ctx context.Context, p robot.Pose) error
	ExecuteTrajectoryFromPoses(ctx context.Context, poses []robot.Pose, distSmoothing float64) error
}

// Config holds configuration for the controller.
type Config struct {
	DistSmoothing float64
	Logger        *slog.Logger
}

// Controller drives one robot through plans.
type Controller struct {
	robot         Robot
	distSmoothing float64
	logger        *slog.Logger
}

// NewController creates a controller for r.
func NewController(r Robot, cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Controller{
		robot:         r,
		distSmoothing: cfg.DistSmoothing,
		logger:        cfg.Logger,
	}
}

// Run calibrates the robot once and then carries out plan. Errors are not
// retried; the first failure ends the run.
func (c *Controller) Run(ctx context.Context, plan Plan) (err error) {
	ctx, span := tracing.StartSpan(ctx, "draw.run",
		attribute.Int("case", plan.Selector),
		attribute.String("action", plan.Action.String()),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if err := c.calibrate(ctx); err != nil {
		return err
	}

	switch plan.Action {
	case ActionMove:
		return c.move(ctx, plan.Pose)
	case ActionTrajectory:
		return c.execute(ctx, plan)
	default:
		c.logger.Warn("case selects no motion", "case", plan.Selector)
		return nil
	}
}

func (c *Controller) calibrate(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "robot.calibrate")
	defer func() { tracing.EndSpan(span, err) }()

	c.logger.Info("calibrating")
	if err := c.robot.CalibrateAuto(ctx); err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	return nil
}

func (c *Controller) move(ctx context.Context, p robot.Pose) (err error) {
	ctx, span := tracing.StartSpan(ctx, "robot.move_pose")
	defer func() { tracing.EndSpan(span, err) }()

	if err := c.robot.MovePose(ctx, p); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	return nil
}

func (c *Controller) execute(ctx context.Context, plan Plan) (err error) {
	ctx, span := tracing.StartSpan(ctx, "robot.execute_trajectory",
		attribute.String("trajectory", plan.SetName),
		attribute.Int("waypoints", len(plan.Waypoints)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	c.logger.Info("executing trajectory", "trajectory", plan.SetName, "waypoints", len(plan.Waypoints))
	if err := c.robot.ExecuteTrajectoryFromPoses(ctx, plan.Waypoints, c.distSmoothing); err != nil {
		return fmt.Errorf("trajectory %s: %w", plan.SetName, err)
	}
	return nil
}
