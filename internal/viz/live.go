package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mdlab/internal/analysis"
	"github.com/san-kum/mdlab/internal/config"
	"github.com/san-kum/mdlab/internal/experiment"
)

const (
	canvasWidth  = 80
	canvasHeight = 24
	tickRate     = time.Second / 30
)

// graphObservables are the series the sparkline can cycle through.
var graphObservables = []string{
	analysis.ObsTemperature,
	analysis.ObsTotalEnergy,
	analysis.ObsKineticEnergy,
	analysis.ObsPotentialEnergy,
	analysis.ObsPressure,
}

type TickMsg time.Time

// Model drives the live terminal view. Each tick advances the simulation
// a whole batch of steps before redrawing, so a frame never observes a
// half-finished step.
type Model struct {
	cfg           *config.Config
	ex            *experiment.Experiment
	canvas        *Canvas
	running       bool
	showHelp      bool
	showVel       bool
	graphIdx      int
	stepsPerFrame int
	buildErr      error
}

func NewModel(ex *experiment.Experiment) Model {
	cfg := ex.Config()
	spf := cfg.StepsPerFrame
	if spf <= 0 {
		spf = 1
	}
	return Model{
		cfg:           cfg,
		ex:            ex,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		stepsPerFrame: spf,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.graphIdx = (m.graphIdx + 1) % len(graphObservables)
		case "+", "=":
			m.stepsPerFrame++
		case "-", "_":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame--
			}
		case "v":
			m.showVel = !m.showVel
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.buildErr == nil {
			m.ex.Integrator().StepN(m.stepsPerFrame)
		}
		return m, tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// reset rebuilds the experiment from its config, restoring positions,
// velocities and the sampled history.
func (m *Model) reset() {
	ex, err := experiment.Build(m.cfg)
	if err != nil {
		m.buildErr = err
		return
	}
	m.ex = ex
	m.buildErr = nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	s := m.ex.System()
	if s.Box.W <= 0 || s.Box.H <= 0 {
		return
	}
	cw, ch := canvasWidth*2, canvasHeight*4
	for i := 0; i < s.N; i++ {
		px := int(s.Pos[2*i] / s.Box.W * float64(cw))
		py := ch - 1 - int(s.Pos[2*i+1]/s.Box.H*float64(ch))
		m.canvas.SetColored(px, py, s.Type[i])
	}
	if m.showVel {
		m.drawVelocities(cw, ch)
	}
}

// drawVelocities overlays a line per particle along its velocity, scaled
// so the fastest particle gets a fixed on-screen length.
func (m *Model) drawVelocities(cw, ch int) {
	const maxArrow = 12 // subpixels
	s := m.ex.System()

	vmax := 0.0
	for i := 0; i < s.N; i++ {
		if v := math.Hypot(s.Vel[2*i], s.Vel[2*i+1]); v > vmax {
			vmax = v
		}
	}
	if vmax == 0 {
		return
	}

	scale := maxArrow / vmax
	for i := 0; i < s.N; i++ {
		px := int(s.Pos[2*i] / s.Box.W * float64(cw))
		py := ch - 1 - int(s.Pos[2*i+1]/s.Box.H*float64(ch))
		qx := px + int(s.Vel[2*i]*scale)
		qy := py - int(s.Vel[2*i+1]*scale)
		m.canvas.DrawLine(px, py, qx, qy)
	}
}

func (m Model) View() string {
	if m.buildErr != nil {
		return fmt.Sprintf("reset failed: %v\npress q to quit\n", m.buildErr)
	}

	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("MDLAB") + "\n")
	if m.running {
		sb.WriteString("RUNNING\n\n")
	} else {
		sb.WriteString("PAUSED\n\n")
	}

	name := graphObservables[m.graphIdx]
	if series := m.ex.Engine().History(name); series != nil && series.Len() > 1 {
		chart := asciigraph.Plot(series.Values(),
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(name))
		sb.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	vv := m.ex.Integrator()
	sys := m.ex.System()
	res := m.ex.Snapshot()
	sb.WriteString(statLine("Time", fmt.Sprintf("%.2f (%d steps)", float64(vv.Steps())*vv.Dt(), vv.Steps())))
	sb.WriteString(statLine("Particles", fmt.Sprintf("%d", sys.N)))
	sb.WriteString(statLine("Temperature", fmt.Sprintf("%.1f K", res.Temperature)))
	sb.WriteString(statLine("Pressure", fmt.Sprintf("%.3g eV/A2", res.Pressure)))
	sb.WriteString(statLine("Energy", fmt.Sprintf("%.4f eV", res.TotalEnergy)))
	sb.WriteString(statLine("Density", fmt.Sprintf("%.4f /A2", res.Density)))
	sb.WriteString(statLine("Box", fmt.Sprintf("%.1f x %.1f", sys.Box.W, sys.Box.H)))
	sb.WriteString(statLine("Steps/frame", fmt.Sprintf("%d", m.stepsPerFrame)))

	sb.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit\nTab:Graph V:Vectors +/-:Speed ?:Help"))
	statsView := statsStyle.Render(sb.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  Tab      - Cycle graphed observable ║
║  V        - Toggle velocity vectors  ║
║  + / -    - Steps per frame          ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
