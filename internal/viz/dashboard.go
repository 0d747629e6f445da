package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/scadsim/internal/physics"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
	graphWidth      = 40
	graphHeight     = 6
)

type frameMsg physics.Frame

// Dashboard is the Bubble Tea model shown by [Terminal].
type Dashboard struct {
	title   string
	total   int
	frame   physics.Frame
	frames  int
	heights []float64
	canvas  *Canvas
	grid    bool
	closed  bool
}

func NewDashboard(title string, total int) Dashboard {
	return Dashboard{
		title:   title,
		total:   total,
		heights: make([]float64, 0, historyCapacity),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		grid:    true,
	}
}

func (d Dashboard) Init() tea.Cmd { return nil }

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			d.closed = true
			return d, tea.Quit
		case "g":
			d.grid = !d.grid
			DrawFrame(d.canvas, d.frame, d.grid)
		}
	case tea.WindowSizeMsg:
		w := msg.Width - 50
		h := msg.Height - 6
		if w >= 20 && h >= 8 && (w != d.canvas.Width || h != d.canvas.Height) {
			d.canvas = NewCanvas(w, h)
			DrawFrame(d.canvas, d.frame, d.grid)
		}
	case frameMsg:
		d.frame = physics.Frame(msg)
		d.frames++
		if b, ok := focusBody(d.frame); ok {
			if len(d.heights) == historyCapacity {
				d.heights = append(d.heights[:0], d.heights[1:]...)
			}
			d.heights = append(d.heights, b.Position.Z)
		}
		DrawFrame(d.canvas, d.frame, d.grid)
	}
	return d, nil
}

// focusBody returns the first dynamic body of f.
func focusBody(f physics.Frame) (physics.BodyView, bool) {
	for _, b := range f.Bodies {
		if b.Kind == physics.KindMesh && !b.Static {
			return b, true
		}
	}
	return physics.BodyView{}, false
}

func (d Dashboard) Closed() bool { return d.closed }

func (d Dashboard) Frames() int { return d.frames }

func (d Dashboard) Heights() []float64 { return d.heights }

func (d Dashboard) View() string {
	if d.closed {
		return ""
	}
	header := Title.Render(d.title) + "  " + Subtle.Render(fmt.Sprintf("session %d", d.frame.Session))
	view := Panel.Render(d.canvas.String())
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, view, " ", d.stats()),
		KeyHint.Render("q quit · g grid"),
	)
}

func (d Dashboard) stats() string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}

	row("step", fmt.Sprintf("%d / %d", d.frame.Step, d.total))
	row("time", fmt.Sprintf("%.2fs", d.frame.Time))
	if body, ok := focusBody(d.frame); ok {
		row("body", body.Name)
		row("height", fmt.Sprintf("%.3fm", body.Position.Z))
		status := StatusFalling.Render("moving")
		if body.Sleeping {
			status = StatusResting.Render("resting")
		}
		b.WriteString(MetricLabel.Render("state") + status + "\n")
	}
	if d.total > 0 {
		b.WriteString(ProgressBar(float64(d.frame.Step)/float64(d.total), graphWidth) + "\n")
	}
	b.WriteString(Separator(graphWidth) + "\n")
	b.WriteString(Graph.Render(PlotSeries(d.heights, graphWidth, graphHeight, "height (m)")))
	return Panel.Render(b.String())
}
