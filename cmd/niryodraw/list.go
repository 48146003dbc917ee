package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/polibarobotics/niryodraw/pkg/draw"
	"github.com/polibarobotics/niryodraw/pkg/trajectory"
)

type ListCommand struct {
	Trajectories string `long:"trajectories" short:"t" description:"YAML trajectory library (default: built-in)"`
}

func (c *ListCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := SelectionOptions{Trajectories: c.Trajectories}.library(cfg)
	if err != nil {
		return err
	}

	fmt.Println(listTable(lib).Render())
	return nil
}

// caseFor returns the selector that dispatches name, or "-" if none does.
func caseFor(name string) string {
	for _, n := range []int{draw.CaseCircle, draw.CasePolibaNormal, draw.CaseTrajectoryUsed} {
		if set, _ := draw.SetName(n); set == name {
			return strconv.Itoa(n)
		}
	}
	return "-"
}

func listTable(lib *trajectory.Library) *table.Table {
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableHeaderStyle := headerStyle.Padding(0, 1)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)

	rows := make([][]string, 0, len(lib.Names()))
	for _, name := range lib.Names() {
		poses, _ := lib.Get(name)
		b := trajectory.BoundsOf(poses)
		rows = append(rows, []string{
			caseFor(name),
			name,
			strconv.Itoa(len(poses)),
			fmt.Sprintf("%.3f .. %.3f", b.Min.X, b.Max.X),
			fmt.Sprintf("%.3f .. %.3f", b.Min.Y, b.Max.Y),
			fmt.Sprintf("%.3f .. %.3f", b.Min.Z, b.Max.Z),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Case", "Trajectory", "Points", "X (m)", "Y (m)", "Z (m)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 1 {
				return nameStyle
			}
			return cellStyle
		})
}
