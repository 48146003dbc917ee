package draw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polibarobotics/niryodraw/pkg/niryo"
	"github.com/polibarobotics/niryodraw/pkg/niryo/niryotest"
	"github.com/polibarobotics/niryodraw/pkg/robot"
	"github.com/polibarobotics/niryodraw/pkg/trajectory"
)

type call struct {
	name      string
	pose      robot.Pose
	poses     []robot.Pose
	smoothing float64
}

type fakeRobot struct {
	calls        []call
	calibrateErr error
	executeErr   error
}

func (f *fakeRobot) CalibrateAuto(ctx context.Context) error {
	f.calls = append(f.calls, call{name: "calibrate"})
	return f.calibrateErr
}

func (f *fakeRobot) MovePose(ctx context.Context, p robot.Pose) error {
	f.calls = append(f.calls, call{name: "move", pose: p})
	return nil
}

func (f *fakeRobot) ExecuteTrajectoryFromPoses(ctx context.Context, poses []robot.Pose, distSmoothing float64) error {
	f.calls = append(f.calls, call{name: "execute", poses: poses, smoothing: distSmoothing})
	return f.executeErr
}

func (f *fakeRobot) names() []string {
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = c.name
	}
	return names
}

func runCase(t *testing.T, selector int) *fakeRobot {
	t.Helper()
	plan, err := NewPlan(trajectory.Default(), selector)
	require.NoError(t, err)

	r := &fakeRobot{}
	require.NoError(t, NewController(r, Config{}).Run(context.Background(), plan))
	return r
}

func TestRun_TrajectoryCases(t *testing.T) {
	lib := trajectory.Default()
	tests := []struct {
		selector int
		set      string
	}{
		{CaseCircle, trajectory.Circle},
		{CasePolibaNormal, trajectory.PolibaNormal},
		{CaseTrajectoryUsed, trajectory.TrajectoryUsed},
	}

	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			r := runCase(t, tt.selector)

			require.Equal(t, []string{"calibrate", "execute"}, r.names())
			want, _ := lib.Get(tt.set)
			assert.Equal(t, want, r.calls[1].poses)
		})
	}
}

func TestRun_MoveCase(t *testing.T) {
	r := runCase(t, CaseMove)

	require.Equal(t, []string{"calibrate", "move"}, r.names())
	assert.Equal(t, robot.Pose{X: 0.25, Y: 0.12711241113395, Z: 0.140, Roll: 0, Pitch: 0.5, Yaw: 0}, r.calls[1].pose)
}

func TestRun_OtherCasesDoNothing(t *testing.T) {
	for _, selector := range []int{-1, 4, 42} {
		r := runCase(t, selector)
		assert.Equal(t, []string{"calibrate"}, r.names(), "case %d", selector)
	}
}

func TestRun_CalibrationFailureStopsMotion(t *testing.T) {
	plan, err := NewPlan(trajectory.Default(), CaseCircle)
	require.NoError(t, err)

	r := &fakeRobot{calibrateErr: errors.New("collision detected")}
	err = NewController(r, Config{}).Run(context.Background(), plan)

	require.Error(t, err)
	assert.ErrorIs(t, err, r.calibrateErr)
	assert.Equal(t, []string{"calibrate"}, r.names())
}

func TestRun_ExecuteErrorIsReturned(t *testing.T) {
	plan, err := NewPlan(trajectory.Default(), CaseTrajectoryUsed)
	require.NoError(t, err)

	r := &fakeRobot{executeErr: errors.New("invalid pose")}
	err = NewController(r, Config{}).Run(context.Background(), plan)

	assert.ErrorIs(t, err, r.executeErr)
	assert.Contains(t, err.Error(), trajectory.TrajectoryUsed)
}

func TestRun_PassesSmoothing(t *testing.T) {
	plan, err := NewPlan(trajectory.Default(), CaseCircle)
	require.NoError(t, err)

	r := &fakeRobot{}
	require.NoError(t, NewController(r, Config{DistSmoothing: 0.02}).Run(context.Background(), plan))
	assert.Equal(t, 0.02, r.calls[1].smoothing)
}

func TestNewPlan_CopiesWaypoints(t *testing.T) {
	lib := trajectory.Default()
	plan, err := NewPlan(lib, CaseCircle)
	require.NoError(t, err)

	plan.Waypoints[0].X = 99

	original, _ := lib.Get(trajectory.Circle)
	assert.NotEqual(t, 99.0, original[0].X)
}

func TestNewPlan_MissingSet(t *testing.T) {
	lib, err := trajectory.Parse([]byte("waypoints_circle:\n  - [0.3, 0, 0.14, 0, 1.57, 0]\n"))
	require.NoError(t, err)

	_, err = NewPlan(lib, CasePolibaNormal)
	assert.Error(t, err)

	plan, err := NewPlan(lib, CaseCircle)
	require.NoError(t, err)
	assert.Len(t, plan.Waypoints, 1)
}

func TestPlan_String(t *testing.T) {
	lib := trajectory.Default()

	move, _ := NewPlan(lib, CaseMove)
	assert.Contains(t, move.String(), "move to")

	traj, _ := NewPlan(lib, CaseCircle)
	assert.Contains(t, traj.String(), trajectory.Circle)

	none, _ := NewPlan(lib, 7)
	assert.Equal(t, "case 7: no motion", none.String())
}

func TestRun_AgainstController(t *testing.T) {
	srv := niryotest.NewServer(t, nil)

	arm, err := robot.NewArm(context.Background(), robot.ArmConfig{
		Address:        srv.Host(),
		Port:           srv.Port(),
		ConnectTimeout: robot.Duration(time.Second),
	}, nil)
	require.NoError(t, err)
	defer arm.Close()

	plan, err := NewPlan(trajectory.Default(), CaseCircle)
	require.NoError(t, err)
	require.NoError(t, NewController(arm, Config{}).Run(context.Background(), plan))

	assert.Equal(t, []string{"CALIBRATE", "EXECUTE_TRAJECTORY_FROM_POSES"}, srv.Commands())

	var sent [][]float64
	require.NoError(t, srv.Requests()[1].Decode(0, &sent))
	require.Len(t, sent, len(plan.Waypoints))
	for i, p := range plan.Waypoints {
		assert.Equal(t, p.Values(), sent[i])
	}
}

func TestRun_ControllerRefusesTrajectory(t *testing.T) {
	srv := niryotest.NewServer(t, func(req *niryo.Request) *niryo.Response {
		if req.Command == "EXECUTE_TRAJECTORY_FROM_POSES" {
			return niryotest.KO("pose out of workspace")
		}
		return nil
	})

	arm, err := robot.NewArm(context.Background(), robot.ArmConfig{
		Address: srv.Host(),
		Port:    srv.Port(),
	}, nil)
	require.NoError(t, err)
	defer arm.Close()

	plan, err := NewPlan(trajectory.Default(), CaseTrajectoryUsed)
	require.NoError(t, err)

	err = NewController(arm, Config{}).Run(context.Background(), plan)
	var cmdErr *niryo.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "pose out of workspace", cmdErr.Message)
}
