package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/polibarobotics/niryodraw/pkg/draw"
	"github.com/polibarobotics/niryodraw/pkg/robot"
	"github.com/polibarobotics/niryodraw/pkg/tracing"
)

type RunCommand struct {
	Connection ConnectionOptions `group:"Connection"`
	Selection  SelectionOptions  `group:"Trajectory"`

	Smoothing *float64 `long:"smoothing" description:"Blending distance around each waypoint, in metres"`
	Yes       bool     `long:"yes" short:"y" description:"Do not ask for confirmation before moving"`
	Trace     string   `long:"trace" value-name:"FILE" description:"Write OpenTelemetry spans to FILE"`
}

func (c *RunCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lib, err := c.Selection.library(cfg)
	if err != nil {
		return err
	}
	plan, err := draw.NewPlan(lib, c.Selection.selector(cfg))
	if err != nil {
		return err
	}

	armCfg := c.Connection.armConfig(cfg)
	smoothing := cfg.Trajectory.DistSmoothing
	if c.Smoothing != nil {
		smoothing = *c.Smoothing
	}

	fmt.Println(headerStyle.Render("niryodraw run"))
	fmt.Printf("Robot:  %s:%d\n", armCfg.Address, armCfg.Port)
	fmt.Printf("Plan:   %s\n", plan)
	fmt.Println()

	if !c.Yes {
		proceed, err := confirmRun(plan)
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Println(dimStyle.Render("Cancelled."))
			return nil
		}
	}

	if c.Trace != "" {
		shutdown, err := tracing.Init("niryodraw", version, c.Trace)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown(context.Background())
	}

	logger := newLogger().With("run_id", uuid.NewString())

	ctx, stop := signalContext()
	defer stop()

	arm, err := connect(ctx, armCfg, logger)
	if err != nil {
		return err
	}
	defer arm.Close()

	ctrl := draw.NewController(arm, draw.Config{
		DistSmoothing: smoothing,
		Logger:        logger,
	})
	if err := ctrl.Run(ctx, plan); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println(warnStyle.Render("Interrupted."))
		}
		return err
	}

	if plan.Action == draw.ActionNone {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Case %d selects no motion; the arm was only calibrated.", plan.Selector)))
		return nil
	}
	fmt.Println(successStyle.Render("Done."))
	return nil
}

func connect(ctx context.Context, cfg robot.ArmConfig, logger *slog.Logger) (arm *robot.Arm, err error) {
	ctx, span := tracing.StartSpan(ctx, "robot.connect",
		attribute.String("address", cfg.Address),
		attribute.Int("port", cfg.Port),
	)
	defer func() { tracing.EndSpan(span, err) }()

	logger.Info("connecting", "address", cfg.Address, "port", cfg.Port)
	return robot.NewArm(ctx, cfg, logger)
}

func confirmRun(plan draw.Plan) (bool, error) {
	proceed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Calibrate and move the arm?").
				Description(plan.String()).
				Affirmative("Run").
				Negative("Cancel").
				Value(&proceed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return proceed, nil
}
