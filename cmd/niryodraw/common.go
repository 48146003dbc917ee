package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/polibarobotics/niryodraw/pkg/robot"
	"github.com/polibarobotics/niryodraw/pkg/trajectory"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ConnectionOptions override the robot section of the config file.
type ConnectionOptions struct {
	Address string `long:"address" short:"a" env:"NIRYO_ADDRESS" description:"Robot controller address"`
	Port    int    `long:"port" env:"NIRYO_PORT" description:"Robot controller TCP port"`
}

func (o ConnectionOptions) armConfig(cfg *robot.Config) robot.ArmConfig {
	arm := cfg.Robot
	if o.Address != "" {
		arm.Address = o.Address
	}
	if o.Port != 0 {
		arm.Port = o.Port
	}
	if arm.Address == "" {
		arm.Address = robot.DefaultAddress
	}
	return arm
}

// SelectionOptions override the trajectory section of the config file.
type SelectionOptions struct {
	Case         *int   `long:"case" short:"n" env:"NIRYO_CASE" description:"Trajectory selector: 0 single move, 1 circle, 2 poliba, 3 trajectory_used"`
	Trajectories string `long:"trajectories" short:"t" description:"YAML trajectory library (default: built-in)"`
}

func (o SelectionOptions) selector(cfg *robot.Config) int {
	if o.Case != nil {
		return *o.Case
	}
	return cfg.Trajectory.Case
}

func (o SelectionOptions) library(cfg *robot.Config) (*trajectory.Library, error) {
	path := o.Trajectories
	if path == "" {
		path = cfg.Trajectory.File
	}
	if path == "" {
		return trajectory.Default(), nil
	}
	return trajectory.LoadFile(path)
}

// loadConfig reads the config file, falling back to defaults when it is absent.
func loadConfig() (*robot.Config, error) {
	if !robot.ConfigExists(opts.Config) {
		return robot.DefaultConfig(), nil
	}
	return robot.LoadConfigFrom(opts.Config)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// signalContext is cancelled on Ctrl-C so a blocked controller call returns.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
