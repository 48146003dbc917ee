package draw

import (
	"fmt"

	"github.com/polibarobotics/niryodraw/pkg/robot"
	"github.com/polibarobotics/niryodraw/pkg/trajectory"
)

// Selector values understood by NewPlan.
const (
	CaseMove           = 0
	CaseCircle         = 1
	CasePolibaNormal   = 2
	CaseTrajectoryUsed = 3
)

// MovePose is the single pose commanded for CaseMove.
var MovePose = robot.Pose{X: 0.25, Y: 0.12711241113395, Z: 0.140, Roll: 0, Pitch: 0.5, Yaw: 0}

// Action is what a plan makes the robot do after calibration.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionTrajectory
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionMove:
		return "move"
	case ActionTrajectory:
		return "trajectory"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Plan is the motion chosen for a selector.
type Plan struct {
	Selector  int
	Action    Action
	SetName   string       // ActionTrajectory only
	Waypoints []robot.Pose // ActionTrajectory only
	Pose      robot.Pose   // ActionMove only
}

// SetName returns the library list a selector dispatches, if any.
func SetName(selector int) (string, bool) {
	switch selector {
	case CaseCircle:
		return trajectory.Circle, true
	case CasePolibaNormal:
		return trajectory.PolibaNormal, true
	case CaseTrajectoryUsed:
		return trajectory.TrajectoryUsed, true
	default:
		return "", false
	}
}

// NewPlan maps selector to a plan. Waypoints are copied out of lib, so the
// plan never aliases library storage. Selectors other than 0 through 3 give
// an ActionNone plan.
func NewPlan(lib *trajectory.Library, selector int) (Plan, error) {
	plan := Plan{Selector: selector}

	if selector == CaseMove {
		plan.Action = ActionMove
		plan.Pose = MovePose
		return plan, nil
	}

	name, ok := SetName(selector)
	if !ok {
		plan.Action = ActionNone
		return plan, nil
	}

	poses, ok := lib.Get(name)
	if !ok {
		return Plan{}, fmt.Errorf("case %d: trajectory %q not found", selector, name)
	}

	waypoints := make([]robot.Pose, len(poses))
	copy(waypoints, poses)

	plan.Action = ActionTrajectory
	plan.SetName = name
	plan.Waypoints = waypoints
	return plan, nil
}

func (p Plan) String() string {
	switch p.Action {
	case ActionMove:
		return fmt.Sprintf("case %d: move to %s", p.Selector, p.Pose)
	case ActionTrajectory:
		return fmt.Sprintf("case %d: %s (%d waypoints)", p.Selector, p.SetName, len(p.Waypoints))
	default:
		return fmt.Sprintf("case %d: no motion", p.Selector)
	}
}
