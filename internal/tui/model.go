// Package tui provides the Bubble Tea game screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/strokebot/internal/display"
	"github.com/verte-zerg/strokebot/internal/input"
	"github.com/verte-zerg/strokebot/internal/model"
	"github.com/verte-zerg/strokebot/internal/session"
	"github.com/verte-zerg/strokebot/internal/stats"
)

const (
	marqueeWidth = 24
	maxBarWidth  = 40
)

// Engine is the published view of the running session.
type Engine interface {
	Snapshot() model.Snapshot
	Flags() *session.Flags
}

// Options configures the game screen.
type Options struct {
	Engine   Engine
	Bindings []input.Binding
	// Sources receive the edges for each binding, keyed by binding name.
	Sources map[string]*input.KeySource
	// History is optional and feeds the last-session footer segment.
	History stats.Lister
	Logger  *slog.Logger
	Now     func() time.Time
}

type frameMsg struct{}

// Model implements the Bubble Tea game UI.
type Model struct {
	engine   Engine
	animator *display.Animator
	sources  map[rune]*input.KeySource
	history  stats.Lister
	logger   *slog.Logger
	now      func() time.Time

	keys keyMap
	help help.Model
	bar  progress.Model

	snap  model.Snapshot
	frame display.Frame
	last  *model.SessionRecord

	width  int
	height int
}

var (
	artStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	stimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7AB6")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	coolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))
	marqueeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs the game UI model.
func NewModel(opts Options) *Model {
	m := &Model{
		engine:   opts.Engine,
		animator: display.NewAnimator(marqueeWidth),
		sources:  map[rune]*input.KeySource{},
		history:  opts.History,
		logger:   opts.Logger,
		now:      opts.Now,
		keys:     newKeyMap(opts.Bindings),
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		frame:    display.Frame{Blank: true},
	}
	for _, b := range opts.Bindings {
		if src, ok := opts.Sources[b.Name]; ok {
			m.sources[b.Key] = src
		}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.engine != nil {
		m.snap = m.engine.Snapshot()
	}
	m.loadLastSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nextFrame(display.StepInterval)
}

func nextFrame(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return frameMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(maxBarWidth, msg.Width/3)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyRunes {
			m.handleRunes(msg.Runes)
		}
		return m, nil
	case frameMsg:
		m.advance()
		return m, nextFrame(m.frame.Hold)
	default:
		return m, nil
	}
}

// Terminals report key repeats but not releases, so every press is followed
// by an immediate release edge.
func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		src, ok := m.sources[r]
		if !ok {
			continue
		}
		now := m.now()
		if !src.Press(now) {
			m.logger.Debug("press dropped", "key", string(r))
			continue
		}
		src.Release(now)
	}
}

func (m *Model) advance() {
	if m.engine == nil {
		return
	}
	prev := m.snap.Phase
	m.snap = m.engine.Snapshot()
	m.frame = m.animator.Next(m.snap, m.engine.Flags())
	if prev != m.snap.Phase && (m.snap.Phase == model.PhaseSuccess || m.snap.Phase == model.PhaseIdle) {
		m.loadLastSession()
	}
}

func (m *Model) loadLastSession() {
	if m.history == nil {
		return
	}
	sessions, err := m.history.ListSessions(context.Background(), model.HistoryConfig{Last: 1})
	if err != nil {
		m.logger.Error("failed to load last session", "err", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.last = &last
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.renderBody()
	footer := m.renderFooter()
	helpLine := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{body, footer, helpLine}, "\n")
	}
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, footer)
	}
	bodyHeight := m.height - 2
	return lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body) + "\n" +
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer) + "\n" +
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
}

func (m *Model) renderBody() string {
	if m.frame.Blank {
		return ""
	}
	style := artStyle
	switch {
	case m.frame.Stim:
		style = stimStyle
	case m.snap.Phase == model.PhaseSuccess:
		style = successStyle
	case m.snap.Phase == model.PhaseCooldown:
		style = coolStyle
	}
	art := style.Render(strings.Join(m.frame.Art.Lines, "\n"))
	marquee := marqueeStyle.Render(m.frame.Text)
	return lipgloss.JoinVertical(lipgloss.Center, art, marquee)
}

func (m *Model) renderFooter() string {
	segments := []string{
		phaseStyle.Render(m.snap.Phase.String()),
		fmt.Sprintf("Strokes %d/%d", m.snap.StrokeCount, m.snap.StrokesGoal),
	}
	if m.snap.Phase != model.PhaseIdle {
		segments = append(segments, m.bar.ViewAs(goalFraction(m.snap)))
	}
	if m.last != nil {
		segments = append(segments, fmt.Sprintf("Last %s · %d strokes · %s",
			m.last.Outcome, m.last.Strokes, humanize.RelTime(m.last.EndedAt, m.now(), "ago", "from now")))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func goalFraction(snap model.Snapshot) float64 {
	if snap.StrokesGoal <= 0 {
		return 1
	}
	f := float64(snap.StrokeCount) / float64(snap.StrokesGoal)
	if f > 1 {
		return 1
	}
	return f
}
