package main

import (
	"fmt"

	"github.com/polibarobotics/niryodraw/pkg/robot"
)

type InfoCommand struct {
	Connection ConnectionOptions `group:"Connection"`
}

func (c *InfoCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	armCfg := c.Connection.armConfig(cfg)

	ctx, stop := signalContext()
	defer stop()

	arm, err := robot.NewArm(ctx, armCfg, newLogger())
	if err != nil {
		return err
	}
	defer arm.Close()

	need, err := arm.NeedCalibration(ctx)
	if err != nil {
		return err
	}
	pose, err := arm.Pose(ctx)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Robot %s:%d", armCfg.Address, armCfg.Port)))
	if need {
		fmt.Println("  Calibration: " + warnStyle.Render("required"))
	} else {
		fmt.Println("  Calibration: " + successStyle.Render("done"))
	}
	fmt.Printf("  Position:    x=%.4f y=%.4f z=%.4f\n", pose.X, pose.Y, pose.Z)
	fmt.Printf("  Orientation: roll=%.3f pitch=%.3f yaw=%.3f\n", pose.Roll, pose.Pitch, pose.Yaw)
	return nil
}
