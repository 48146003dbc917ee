package robot

import (
	"context"
	"fmt"
	"strings"
)

// CalibrationMode selects how the controller calibrates its motors.
type CalibrationMode string

const (
	CalibrateAuto   CalibrationMode = "AUTO"
	CalibrateManual CalibrationMode = "MANUAL"
)

// ParseCalibrationMode accepts a mode name in any case.
func ParseCalibrationMode(s string) (CalibrationMode, error) {
	switch m := CalibrationMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case CalibrateAuto, CalibrateManual:
		return m, nil
	default:
		return "", fmt.Errorf("unknown calibration mode %q", s)
	}
}

// Calibrate runs the controller's calibration routine and blocks until it ends.
func (a *Arm) Calibrate(ctx context.Context, mode CalibrationMode) error {
	a.logger.Info("calibrate", "mode", string(mode))
	if _, err := a.conn.Call(ctx, cmdCalibrate, string(mode)); err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	return nil
}

// CalibrateAuto runs automatic calibration.
func (a *Arm) CalibrateAuto(ctx context.Context) error {
	return a.Calibrate(ctx, CalibrateAuto)
}

// NeedCalibration reports whether the controller requires calibration
// before it accepts motion commands.
func (a *Arm) NeedCalibration(ctx context.Context) (bool, error) {
	resp, err := a.conn.Call(ctx, cmdNeedCalibration)
	if err != nil {
		return false, fmt.Errorf("need calibration: %w", err)
	}
	var need bool
	if err := resp.Decode(0, &need); err != nil {
		return false, fmt.Errorf("need calibration: %w", err)
	}
	return need, nil
}
