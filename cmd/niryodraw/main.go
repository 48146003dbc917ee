package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

var version = "dev"

type Options struct {
	Config  string `long:"config" short:"c" default:"niryodraw.json" description:"Configuration file"`
	Verbose bool   `long:"verbose" short:"v" description:"Log every controller command"`

	Run     RunCommand     `command:"run" description:"Calibrate the arm and execute the selected trajectory"`
	Setup   SetupCommand   `command:"setup" description:"Write the configuration file"`
	List    ListCommand    `command:"list" alias:"ls" description:"List available trajectories"`
	Preview PreviewCommand `command:"preview" description:"Plot a trajectory in the terminal"`
	Info    InfoCommand    `command:"info" description:"Show calibration state and current pose"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "niryodraw - draw trajectories with a Niryo arm"

	// A missing .env is fine; NIRYO_* variables may come from the shell.
	_ = godotenv.Load()

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
