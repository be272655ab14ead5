package viz

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 44
	historyCapacity = 120
	maxMessages     = 5
	freeFocus       = -1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Options configure a live view.
type Options struct {
	// Speed is the initial speed in simulated seconds per real second.
	// Zero starts at the scenario's first non-zero stop.
	Speed float64
	FPS   int
	// Zero Settings fall back to the scenario's, then to the defaults.
	Settings  physics.StepSettings
	Scheme    physics.Scheme
	Theme     string
	Observers []physics.Observer
	// Snapshot, if set, is handed the current frame when P is pressed.
	Snapshot func(*Canvas) error
}

// Model is a bubbletea model that drives a physics engine and draws it.
type Model struct {
	scn       scenario.Scenario
	eng       *physics.Engine
	intervals []int
	slider    float64
	settings  physics.StepSettings
	fps       int

	running  bool
	camera   *Camera
	focus    int
	canvas   *Canvas
	theme    Theme
	showHelp bool
	snapshot func(*Canvas) error

	width, height int
	energy        []float64
	messages      []string
	lastFrame     time.Time
	frameRate     float64
}

// NewModel sets up scn on a fresh engine.
func NewModel(scn scenario.Scenario, opts Options) (Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	settings := opts.Settings
	if s, ok := scn.StepSettings(); ok && settings == (physics.StepSettings{}) {
		settings = s
	}
	if settings == (physics.StepSettings{}) {
		settings = physics.DefaultStepSettings()
	}
	if err := settings.Validate(); err != nil {
		return Model{}, err
	}

	eng := physics.NewEngine()
	eng.SetScheme(opts.Scheme)
	for _, o := range opts.Observers {
		eng.AddObserver(o)
	}
	if err := scn.Setup(eng); err != nil {
		return Model{}, fmt.Errorf("setting up %s: %w", scn.Name(), err)
	}

	m := Model{
		scn:       scn,
		eng:       eng,
		intervals: scenario.SpeedIntervals(scn),
		settings:  settings,
		fps:       opts.FPS,
		running:   true,
		focus:     freeFocus,
		canvas:    NewCanvas(width, height),
		theme:     GetTheme(opts.Theme),
		snapshot:  opts.Snapshot,
		width:     width,
		height:    height,
		energy:    make([]float64, 0, historyCapacity),
	}
	if opts.Speed > 0 {
		m.slider = scenario.SliderFor(m.intervals, opts.Speed)
	} else {
		m.slider = m.firstMovingStop()
	}
	m.resetView()
	return m, nil
}

func (m Model) firstMovingStop() float64 {
	for i, v := range m.intervals {
		if v > 0 {
			return float64(i)
		}
	}
	return 0
}

// resetView focuses the scenario's default view and fits the camera.
func (m *Model) resetView() {
	m.focus = freeFocus
	if name := m.scn.DefaultView(); name != "" {
		for i, b := range m.eng.Bodies() {
			if b.State().Name == name {
				m.focus = i
			}
		}
	}
	distance, ok := m.scn.DefaultCameraDistance()
	if !ok || m.focus != freeFocus {
		distance = m.fitDistance()
	}
	m.camera = NewCamera(distance)
	m.camera.Target = m.target()
}

// fitDistance is just enough to see every body from the current target.
func (m *Model) fitDistance() float64 {
	target := m.target()
	far := 0.0
	for _, b := range m.eng.Bodies() {
		far = max(far, b.State().Position.Distance(target))
	}
	if far == 0 {
		return dynamo.AstronomicalUnit
	}
	return far * 1.1
}

func (m *Model) target() dynamo.Vector3d {
	bodies := m.eng.Bodies()
	if m.focus >= 0 && m.focus < len(bodies) {
		return bodies[m.focus].State().Position
	}
	com, _ := physics.CenterOfMass(bodies)
	return com
}

// Speed is the current simulated seconds per real second.
func (m Model) Speed() float64 { return scenario.InterpolateSpeed(m.intervals, m.slider) }

func (m Model) Running() bool { return m.running }

func (m Model) Engine() *physics.Engine { return m.eng }

// Focus names the followed body, or "" when the camera follows the centre
// of mass.
func (m Model) Focus() string {
	bodies := m.eng.Bodies()
	if m.focus >= 0 && m.focus < len(bodies) {
		return bodies[m.focus].State().Name
	}
	return ""
}

func (m Model) Camera() *Camera { return m.camera }

func (m Model) Messages() []string { return m.messages }

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(20, msg.Width-statsWidth-6)
		m.height = max(10, msg.Height-2)
		m.canvas = NewCanvas(m.width, m.height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.frameRate = 1 / dt
			}
		}
		m.lastFrame = now
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := float64(len(m.intervals) - 1)
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "right", "l":
		m.slider = math.Min(top, math.Floor(m.slider)+1)
	case "left", "h":
		m.slider = math.Max(0, math.Ceil(m.slider)-1)
	case "]":
		m.slider = math.Min(top, m.slider+0.1)
	case "[":
		m.slider = math.Max(0, m.slider-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "w":
		m.camera.RotatePitch(0.1)
	case "s":
		m.camera.RotatePitch(-0.1)
	case "a":
		m.camera.RotateYaw(-0.1)
	case "d":
		m.camera.RotateYaw(0.1)
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "r":
		m.reset()
	case "t":
		m.theme = NextTheme(m.theme)
	case "p":
		m.takeSnapshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// cycleFocus moves through the bodies and the free view.
func (m *Model) cycleFocus(dir int) {
	n := m.eng.Len() + 1
	m.focus = (m.focus+1+dir+n)%n - 1
	m.camera.Target = m.target()
}

// advance runs one frame worth of simulated time.
func (m *Model) advance() {
	speed := m.Speed()
	if speed <= 0 {
		return
	}
	frame := speed / float64(m.fps)
	if err := m.eng.SetMaxSimulationStep(frame, m.settings); err != nil {
		m.logf("%v", err)
		m.running = false
		return
	}
	if err := m.eng.Simulate(frame); err != nil {
		m.report(err)
	}
	m.camera.Target = m.target()

	m.energy = append(m.energy, physics.TotalEnergy(m.eng.Bodies()))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) report(err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			m.report(e)
		}
		return
	}
	var se *dynamo.SimulationError
	if errors.As(err, &se) {
		m.logf("%s rolled back at %s", se.Body, FormatSimulationTime(se.Time))
		return
	}
	m.logf("%v", err)
}

func (m *Model) logf(format string, args ...any) {
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

func (m *Model) takeSnapshot() {
	if m.snapshot == nil || m.canvas == nil {
		return
	}
	if err := m.snapshot(m.canvas); err != nil {
		m.logf("snapshot: %v", err)
		return
	}
	m.logf("snapshot saved at %s", FormatSimulationTime(m.eng.SimulationTime()))
}

// reset rebuilds the scenario from scratch.
func (m *Model) reset() {
	m.eng.Reset()
	if err := m.scn.Setup(m.eng); err != nil {
		m.logf("reset: %v", err)
		m.running = false
		return
	}
	m.energy = m.energy[:0]
	m.messages = nil
	m.resetView()
}

type sprite struct {
	x, y  int
	depth float64
	r     int
	color string
}

// draw renders trails then bodies, far ones first.
func (m *Model) draw() {
	m.canvas.Clear()
	pw, ph := m.canvas.PixelSize()
	pScale := float64(min(pw, ph)) / 2 / m.camera.ViewRadius()

	var sprites []sprite
	for _, b := range m.eng.Bodies() {
		st := b.State()
		color := string(m.theme.Text)
		radius := 0.0
		if cb, ok := b.(*physics.CelestialBody); ok {
			if cb.Color != "" {
				color = cb.Color
			}
			radius = cb.Radius
			m.drawTrail(physics.Trail(cb), Dim(color, m.theme.TrailFade))
		}

		x, y, depth, ok := m.camera.Project(st.Position, pw, ph)
		if !ok {
			continue
		}
		r := min(3, int(radius*pScale))
		sprites = append(sprites, sprite{x: x, y: y, depth: depth, r: r, color: color})
	}

	sort.SliceStable(sprites, func(i, j int) bool { return sprites[i].depth < sprites[j].depth })
	for _, s := range sprites {
		m.canvas.FillCircle(s.x, s.y, s.r, s.color)
	}
}

func (m *Model) drawTrail(points []dynamo.Vector3d, color string) {
	pw, ph := m.canvas.PixelSize()
	var px, py int
	have := false
	for _, p := range points {
		x, y, _, ok := m.camera.Project(p, pw, ph)
		if !ok {
			have = false
			continue
		}
		if have {
			m.canvas.DrawLine(px, py, x, y, color)
		}
		px, py, have = x, y, true
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	label := MetricLabel
	value := MetricValue.Foreground(m.theme.Primary)

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.scn.Name()), m.theme.Primary, m.theme.Accent) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	s.WriteString(label.Render("Time") + value.Render(FormatSimulationTime(m.eng.SimulationTime())) + "\n")
	s.WriteString(label.Render("Speed") + value.Render(strings.TrimPrefix(FormatSpeed(m.Speed()), "Speed: ")) + "\n")
	s.WriteString(label.Render("") + SpeedBar(m.slider, len(m.intervals)-1, 20) + "\n")
	s.WriteString(label.Render("Bodies") + value.Render(fmt.Sprint(m.eng.Len())) + "\n")

	focus := m.Focus()
	if focus == "" {
		s.WriteString(label.Render("Focus") + value.Render("centre of mass") + "\n")
	} else {
		s.WriteString(label.Render("Focus") + value.Render(focus) + "\n")
		if cb, ok := m.eng.Bodies()[m.focus].(*physics.CelestialBody); ok && cb.Parent != nil {
			d := cb.Position.Distance(cb.ParentPosition())
			s.WriteString(label.Render("Distance") + value.Render(FormatDistance(d)+" from "+cb.Parent.Name) + "\n")
		}
	}
	s.WriteString(label.Render("View") + value.Render(FormatDistance(m.camera.ViewRadius())) + "\n")
	if m.frameRate > 0 {
		s.WriteString(label.Render("FPS") + value.Render(fmt.Sprintf("%.0f", m.frameRate)) + "\n")
	}

	if len(m.energy) > 1 {
		e0 := m.energy[0]
		rel := make([]float64, len(m.energy))
		for i, e := range m.energy {
			if e0 != 0 {
				rel[i] = (e - e0) / math.Abs(e0)
			}
		}
		chart := asciigraph.Plot(rel, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy drift"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	for _, msg := range m.messages {
		s.WriteString(StatusError.Render("! "+msg) + "\n")
	}

	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause ←→:Speed +-:Zoom\nWASD:Rotate Tab:Focus R:Reset\nT:Theme ?:Help Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  ← / →    - Previous/next speed      ║
║  [ / ]    - Fine speed adjustment    ║
║  + / -    - Zoom in/out              ║
║  W / S    - Tilt camera              ║
║  A / D    - Turn camera              ║
║  Tab      - Next focus body          ║
║  R        - Restart scenario         ║
║  T        - Cycle themes             ║
║  P        - Save snapshot            ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
