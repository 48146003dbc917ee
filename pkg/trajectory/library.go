// Package trajectory holds named waypoint lists for the drawing arm.
//
// Lists are stored as a YAML mapping from name to a sequence of poses, each
// pose written as [x, y, z, roll, pitch, yaw]:
//
//	waypoints_circle:
//	  - [0.30, 0.00, 0.14, 0, 1.57, 0]
//	  - [0.29, 0.01, 0.14, 0, 1.57, 0]
//
// A default library is embedded in the binary.
package trajectory

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/polibarobotics/niryodraw/pkg/robot"
)

// Names of the lists in the default library.
const (
	Circle         = "waypoints_circle"
	PolibaNormal   = "waypoints_poliba_normal"
	TrajectoryUsed = "trajectory_used"
)

//go:embed trajectories.yaml
var defaultLibrary []byte

// Library is a set of named waypoint lists.
type Library struct {
	sets map[string][]robot.Pose
}

// Default returns the embedded library.
func Default() *Library {
	lib, err := Parse(defaultLibrary)
	if err != nil {
		panic(fmt.Sprintf("embedded trajectories: %v", err))
	}
	return lib
}

// LoadFile reads a library from a YAML file.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trajectories: %w", err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes a YAML library document.
func Parse(data []byte) (*Library, error) {
	var raw map[string][][]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse trajectories: %w", err)
	}

	lib := &Library{sets: make(map[string][]robot.Pose, len(raw))}
	for name, values := range raw {
		poses := make([]robot.Pose, len(values))
		for i, v := range values {
			p, err := robot.PoseFromValues(v)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			poses[i] = p
		}
		lib.sets[name] = poses
	}
	return lib, nil
}

// Get returns the named list. The returned slice is shared with the library;
// callers that hand it on should copy it.
func (l *Library) Get(name string) ([]robot.Pose, bool) {
	poses, ok := l.sets[name]
	return poses, ok
}

// Names returns the list names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.sets))
	for name := range l.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bounds is the axis-aligned box enclosing a list's positions.
type Bounds struct {
	Min, Max robot.Pose
}

// BoundsOf returns the position bounds of poses. Orientation fields are left zero.
func BoundsOf(poses []robot.Pose) Bounds {
	if len(poses) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: poses[0], Max: poses[0]}
	for _, p := range poses[1:] {
		b.Min.X, b.Max.X = min(b.Min.X, p.X), max(b.Max.X, p.X)
		b.Min.Y, b.Max.Y = min(b.Min.Y, p.Y), max(b.Max.Y, p.Y)
		b.Min.Z, b.Max.Z = min(b.Min.Z, p.Z), max(b.Max.Z, p.Z)
	}
	b.Min.Roll, b.Min.Pitch, b.Min.Yaw = 0, 0, 0
	b.Max.Roll, b.Max.Pitch, b.Max.Yaw = 0, 0, 0
	return b
}
