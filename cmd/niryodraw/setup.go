package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/polibarobotics/niryodraw/pkg/draw"
	"github.com/polibarobotics/niryodraw/pkg/robot"
	"github.com/polibarobotics/niryodraw/pkg/trajectory"
)

type SetupCommand struct {
	NoProbe bool `long:"no-probe" description:"Save without checking that the controller answers"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("niryodraw setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	address := cfg.Robot.Address
	port := strconv.Itoa(cfg.Robot.Port)
	selector := cfg.Trajectory.Case
	file := cfg.Trajectory.File

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Robot address").
				Description("IP address or hostname of the controller").
				Value(&address).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("address is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Port").
				Value(&port).
				Validate(validatePort),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default trajectory").
				Options(caseOptions(selector)...).
				Value(&selector),
			huh.NewInput().
				Title("Trajectory file").
				Description("Leave empty to use the built-in library").
				Value(&file).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := trajectory.LoadFile(s)
					return err
				}),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println()
			return nil
		}
		return err
	}

	cfg.Robot.Address = strings.TrimSpace(address)
	cfg.Robot.Port, err = strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port: %w", err)
	}
	cfg.Trajectory.Case = selector
	cfg.Trajectory.File = file

	if !c.NoProbe {
		fmt.Println()
		fmt.Println(subHeaderStyle.Render("━━━ Checking controller ━━━"))
		if err := probe(cfg.Robot); err != nil {
			fmt.Fprintf(os.Stderr, "Controller did not answer: %v\n", err)
			fmt.Fprintln(os.Stderr, "Use --no-probe to save anyway.")
			return err
		}
	}

	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Start drawing with: " + headerStyle.Render("niryodraw run"))
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(s)
	if err != nil || p <= 0 || p > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}
	return nil
}

// caseOptions lists the known cases. A configured case outside them is
// kept as an extra option so the form does not replace it silently.
func caseOptions(current int) []huh.Option[int] {
	options := []huh.Option[int]{
		huh.NewOption(fmt.Sprintf("%d: single move to %s", draw.CaseMove, draw.MovePose), draw.CaseMove),
	}
	for _, n := range []int{draw.CaseCircle, draw.CasePolibaNormal, draw.CaseTrajectoryUsed} {
		name, _ := draw.SetName(n)
		options = append(options, huh.NewOption(fmt.Sprintf("%d: %s", n, name), n))
	}
	if _, known := draw.SetName(current); !known && current != draw.CaseMove {
		options = append(options, huh.NewOption(fmt.Sprintf("%d: no motion (current setting)", current), current))
	}
	return options
}

func probe(cfg robot.ArmConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	arm, err := robot.NewArm(ctx, cfg, newLogger())
	if err != nil {
		return err
	}
	defer arm.Close()

	need, err := arm.NeedCalibration(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("  Connected to %s:%d\n", cfg.Address, cfg.Port)
	if need {
		fmt.Println(warnStyle.Render("  Arm needs calibration; niryodraw run calibrates it first."))
	} else {
		fmt.Println(successStyle.Render("  Arm is calibrated."))
	}
	return nil
}
