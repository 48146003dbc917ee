// Package niryodraw drives a Niryo robot arm through pre-recorded drawing
// trajectories.
//
// The arm's controller is reached over TCP. A run connects, calibrates the
// arm, picks a waypoint list by an integer case and sends it as one
// trajectory command.
//
// # Installation
//
//	go install github.com/polibarobotics/niryodraw/cmd/niryodraw@latest
//
// # Usage
//
// Write a configuration file with the robot's address (optional, the
// default address is 169.254.200.200):
//
//	niryodraw setup
//
// Inspect the built-in trajectories:
//
//	niryodraw list
//	niryodraw preview --case 1
//
// Then draw:
//
//	niryodraw run --case 3
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/niryodraw: CLI with run, setup, list, preview and info commands
//   - pkg/niryo: Niryo controller TCP protocol
//   - pkg/robot: Arm session, poses and configuration
//   - pkg/trajectory: Named waypoint lists
//   - pkg/draw: Calibrate-then-dispatch sequence
//   - pkg/tracing: OpenTelemetry spans
package niryodraw
