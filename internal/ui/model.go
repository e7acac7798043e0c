package ui

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/tendril/internal/config"
	"github.com/olivier-w/tendril/internal/effect"
	"github.com/olivier-w/tendril/internal/pointer"
	"github.com/olivier-w/tendril/internal/surface"
	"github.com/olivier-w/tendril/internal/util"
)

// Arrow keys move the cursor goal by 1/steerDivisions of the longer side.
const steerDivisions = 20

// fpsWindow is how many frame intervals the fps readout averages over.
const fpsWindow = 32

// Model is the Bubbletea model for the tendril TUI.
type Model struct {
	cfg    config.Config
	logger *log.Logger
	ctrl   *effect.Controller
	raster *surface.Raster
	cursor *pointer.Cursor
	wander pointer.Lissajous
	frames *util.FrameRing

	keys  keyMap
	help  help.Model
	gauge progress.Model

	started time.Time
	now     time.Time
	frame   string // last encoded raster
	width   int
	height  int

	wanderAt     int
	lastX, lastY float64 // last mouse position, world units
	hasLast      bool

	autopilot bool
	paused    bool
	hideHUD   bool
	quitting  bool
}

// New creates a Model rendering cfg in the given mode. A nil logger
// discards diagnostics.
func New(cfg config.Config, mode surface.Mode, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := time.Now()
	return Model{
		cfg:     cfg,
		logger:  logger,
		ctrl:    effect.New(cfg, effect.WithLogger(logger)),
		raster:  surface.NewRaster(0, 0, mode, cfg.Scale, cfg.BackgroundColor()),
		cursor:  pointer.NewCursor(cfg.FPS),
		frames:  util.NewFrameRing(fpsWindow),
		keys:    newKeyMap(),
		help:    help.New(),
		gauge:   newGauge(),
		started: now,
		now:     now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.cfg.FPS), tea.SetWindowTitle(windowTitle(false)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.FocusMsg:
		if m.hasLast {
			m.ctrl.PointerEnter(m.lastX, m.lastY)
		}
		return m, nil

	case tea.BlurMsg:
		m.ctrl.PointerLeave()
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.step(time.Time(msg))
		return m, frameCmd(m.cfg.FPS)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.gauge.Width = gaugeWidth(msg.Width)
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		// The pause gap is not a frame interval.
		m.frames.Clear()
		return m, tea.SetWindowTitle(windowTitle(m.paused))

	case key.Matches(msg, m.keys.Mode):
		m.switchMode(m.raster.Mode().Next())

	case key.Matches(msg, m.keys.Autopilot):
		m.autopilot = !m.autopilot
		if m.autopilot {
			m.cursor.Deactivate()
			m.ctrl.PointerEnter(m.wander.At(m.wanderAt))
		} else {
			m.ctrl.PointerLeave()
		}

	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Initialize(m.raster.WorldSize())

	case key.Matches(msg, m.keys.Up):
		m.steer(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.steer(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.steer(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.steer(1, 0)

	case key.Matches(msg, m.keys.HUD):
		m.hideHUD = !m.hideHUD
		m.layout()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return m, nil
}

// handleMouse feeds mouse input to the controller. The mouse takes over from
// the cursor and the autopilot; the status rows count as outside the surface.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action == tea.MouseActionPress && msg.Button != tea.MouseButtonLeft {
		return
	}
	m.autopilot = false
	m.cursor.Deactivate()

	cols, rows := m.raster.Cells()
	if msg.X < 0 || msg.Y < 0 || msg.X >= cols || msg.Y >= rows {
		m.ctrl.PointerLeave()
		return
	}
	x, y := m.raster.CellToWorld(msg.X, msg.Y)
	m.lastX, m.lastY, m.hasLast = x, y, true

	switch msg.Action {
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(x, y)
	case tea.MouseActionPress:
		m.ctrl.TouchStart(x, y)
	case tea.MouseActionRelease:
		if m.cfg.TouchReleaseDisengages {
			m.ctrl.TouchEnd()
		}
	}
}

// switchMode changes the cell encoding. World units scale with the dots per
// cell, so the strands are rebuilt and every pointer source keeps its cell.
func (m *Model) switchMode(mode surface.Mode) {
	ow, oh := m.raster.WorldSize()
	m.raster.SetMode(mode)
	m.layout()
	w, h := m.raster.WorldSize()
	remap := func(x, y float64) (float64, float64) {
		if ow > 0 {
			x *= w / ow
		}
		if oh > 0 {
			y *= h / oh
		}
		return x, y
	}

	m.ctrl.Initialize(w, h)
	if m.hasLast {
		m.lastX, m.lastY = remap(m.lastX, m.lastY)
	}
	if m.cursor.Active() {
		m.cursor.Place(remap(m.cursor.Position()))
	}
	if m.ctrl.Engaged() {
		switch {
		case m.autopilot:
			m.ctrl.PointerEnter(m.wander.At(m.wanderAt))
		case m.cursor.Active():
			m.ctrl.PointerEnter(m.cursor.Position())
		case m.hasLast:
			m.ctrl.PointerEnter(m.lastX, m.lastY)
		}
	}
	m.logger.Debug("render mode", "mode", mode, "width", w, "height", h)
}

// steer nudges the keyboard cursor, placing it first if it is idle.
func (m *Model) steer(dx, dy float64) {
	w, h := m.raster.WorldSize()
	if !m.cursor.Active() {
		m.autopilot = false
		x, y := w/2, h/2
		if m.hasLast {
			x, y = m.lastX, m.lastY
		}
		m.cursor.Place(x, y)
		m.ctrl.PointerEnter(x, y)
	}
	step := max(w, h) / steerDivisions
	m.cursor.Nudge(dx*step, dy*step)
}

func (m *Model) step(t time.Time) {
	m.now = t
	if m.paused {
		return
	}
	switch {
	case m.autopilot:
		x, y := m.wander.At(m.wanderAt)
		m.wanderAt++
		m.ctrl.PointerMove(x, y)
	case m.cursor.Active():
		m.ctrl.PointerMove(m.cursor.Step())
	}
	m.ctrl.OnFrame(m.raster)
	m.frames.Mark(t)
	m.frame = m.raster.String()
}

// layout sizes the raster to the window minus the status rows and carries
// the new world size into the controller and the synthetic pointers.
func (m *Model) layout() {
	rows := max(m.height-m.hudHeight(), 0)
	m.raster.Resize(max(m.width, 0), rows)
	w, h := m.raster.WorldSize()
	m.ctrl.Resize(w, h)
	m.cursor.SetBounds(w, h)
	m.wander = pointer.NewLissajous(w, h)
	m.frame = m.raster.String()
}

func (m Model) hudHeight() int {
	if m.hideHUD {
		return 0
	}
	return lipgloss.Height(m.hud())
}

func (m Model) uptime() time.Duration {
	if m.now.Before(m.started) {
		return 0
	}
	return m.now.Sub(m.started)
}

func (m Model) hud() string {
	intensity := m.ctrl.Intensity()
	parts := []string{
		headerStyle.Render("tendril"),
		statusStyle.Render(renderMode(m.raster.Mode())),
		m.gauge.ViewAs(intensity),
		statusStyle.Render(renderIntensity(intensity)),
		statusStyle.Render(util.FormatFPS(m.frames.FPS())),
		dimStyle.Render(util.FormatDuration(m.uptime())),
	}
	if m.autopilot {
		parts = append(parts, dimStyle.Render("autopilot"))
	}
	if m.paused {
		parts = append(parts, pausedStyle.Render("paused"))
	}
	return strings.Join(parts, "  ") + "\n" + m.help.View(m.keys)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	_, rows := m.raster.Cells()
	canvas := padLines(m.frame, rows)
	switch {
	case m.hideHUD:
		return canvas
	case rows == 0:
		return m.hud()
	}
	return canvas + "\n" + m.hud()
}
