package main

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/polibarobotics/niryodraw/pkg/draw"
	"github.com/polibarobotics/niryodraw/pkg/robot"
	"github.com/polibarobotics/niryodraw/pkg/trajectory"
)

type PreviewCommand struct {
	Selection SelectionOptions `group:"Trajectory"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 2 // help line
	borderSize   = 2 // chart border
)

// Axis colors
var axisColors = []struct {
	name  string
	color string
	value func(robot.Pose) float64
}{
	{"x", "196", func(p robot.Pose) float64 { return p.X }},
	{"y", "46", func(p robot.Pose) float64 { return p.Y }},
	{"z", "51", func(p robot.Pose) float64 { return p.Z }},
}

var chartStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))

type previewModel struct {
	plan   draw.Plan
	bounds trajectory.Bounds
	chart  *streamlinechart.Model
	width  int
	height int
}

func newPreviewModel(plan draw.Plan) previewModel {
	m := previewModel{
		plan:   plan,
		bounds: trajectory.BoundsOf(plan.Waypoints),
	}
	m.chart = m.newChart(80, 20)
	return m
}

// newChart builds a chart holding every waypoint. Streaming charts cannot
// be redrawn at a new width, so a resize rebuilds it.
func (m previewModel) newChart(w, h int) *streamlinechart.Model {
	lo := min(m.bounds.Min.X, m.bounds.Min.Y, m.bounds.Min.Z)
	hi := max(m.bounds.Max.X, m.bounds.Max.Y, m.bounds.Max.Z)
	margin := (hi - lo) * 0.05
	if margin == 0 {
		margin = 0.01
	}

	chart := streamlinechart.New(w, h,
		streamlinechart.WithYRange(lo-margin, hi+margin),
	)
	for _, axis := range axisColors {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(axis.color))
		chart.SetDataSetStyles(axis.name, runes.ThinLineStyle, style)
		for _, p := range m.plan.Waypoints {
			chart.PushDataSet(axis.name, axis.value(p))
		}
	}
	chart.DrawAll()
	return &chart
}

func (m previewModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	width = max(m.width-borderSize-2, 40)
	height = max(m.height-headerHeight-legendHeight-footerHeight-borderSize, 10)
	return width, height
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart = m.newChart(m.chartSize())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(m.plan.SetName))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  case %d, %d waypoints", m.plan.Selector, len(m.plan.Waypoints))))
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	var items []string
	for _, axis := range axisColors {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(axis.color)).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+axis.name)
	}
	sb.WriteString(strings.Join(items, "  "))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press 'q' to quit"))
	return sb.String()
}

func (c *PreviewCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := c.Selection.library(cfg)
	if err != nil {
		return err
	}
	plan, err := draw.NewPlan(lib, c.Selection.selector(cfg))
	if err != nil {
		return err
	}

	switch plan.Action {
	case draw.ActionNone:
		fmt.Println(warnStyle.Render(plan.String()))
		return nil
	case draw.ActionMove:
		fmt.Println(plan.String())
		return nil
	}

	p := tea.NewProgram(newPreviewModel(plan), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
