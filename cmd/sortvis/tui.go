package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/sortvis"
	"github.com/opd-ai/sortvis/element"
	"github.com/opd-ai/sortvis/engine"
	"github.com/opd-ai/sortvis/event"
	"github.com/opd-ai/sortvis/stats"
)

// Bar colors by visual state.
var stateStyles = map[element.VisualState]lipgloss.Style{
	element.StateUnsorted:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	element.StateComparing: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	element.StatePivot:     lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
	element.StatePointer:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	element.StateSorted:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
}

var (
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type keyMap struct {
	PauseResume key.Binding
	Step        key.Binding
	Reset       key.Binding
	Faster      key.Binding
	Slower      key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PauseResume: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Step:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "step")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reshuffle")),
		Faster:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PauseResume, k.Step, k.Reset, k.Faster, k.Slower, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type stepMsg event.StepEvent

type doneMsg struct {
	outcome    engine.Outcome
	statistics stats.Statistics
}

type model struct {
	viz  *sortvis.Visualizer
	bars element.Sequence

	// msgs bridges the engine goroutine into the bubbletea loop. The
	// engine's pacing bounds production, so a modest buffer absorbs
	// render hiccups without the sink ever dropping an event.
	msgs chan tea.Msg

	keys keyMap
	help help.Model

	width, height int
	paused        bool
	delay         time.Duration
	outcome       *engine.Outcome

	// resetPending defers a requested reshuffle until the cancelled
	// run's terminal doneMsg arrives. Every event of a run is sent
	// before its doneMsg, so resetting at that point never leaves stale
	// steps to misapply against the fresh bars.
	resetPending bool
}

func newModel(viz *sortvis.Visualizer, delay time.Duration) *model {
	return &model{
		viz:   viz,
		bars:  viz.Sequence(),
		msgs:  make(chan tea.Msg, 1024),
		keys:  newKeyMap(),
		help:  help.New(),
		delay: delay,
	}
}

// sink returns the event.Sink the visualizer feeds. Events are relayed
// in emission order; the channel is consumed one message per Update so
// the mirrored bar state never skips a step.
func (m *model) sink() event.Sink {
	return event.SinkFunc(func(ev event.StepEvent) {
		m.msgs <- stepMsg(ev)
	})
}

// finish returns the FinishFunc delivering the run outcome to the loop.
func (m *model) finish() sortvis.FinishFunc {
	return func(outcome engine.Outcome, s stats.Statistics) {
		m.msgs <- doneMsg{outcome: outcome, statistics: s}
	}
}

func (m *model) nextMsg() tea.Cmd {
	return func() tea.Msg { return <-m.msgs }
}

func (m *model) startSort() tea.Cmd {
	return func() tea.Msg {
		if err := m.viz.Start(); err != nil {
			return doneMsg{outcome: engine.OutcomeAborted}
		}
		return nil
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.startSort(), m.nextMsg())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		m.apply(event.StepEvent(msg))
		return m, m.nextMsg()

	case doneMsg:
		outcome := msg.outcome
		m.outcome = &outcome
		if m.resetPending {
			m.resetPending = false
			return m, tea.Batch(m.reshuffle(), m.nextMsg())
		}
		return m, m.nextMsg()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.viz.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PauseResume):
		if m.outcome != nil {
			return m, nil
		}
		if m.paused {
			m.viz.Resume()
		} else {
			m.viz.Pause()
		}
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keys.Step):
		m.viz.Step()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		if m.outcome == nil {
			// Run still active: cancel now, reshuffle on its doneMsg.
			m.resetPending = true
			m.viz.Cancel()
			return m, nil
		}
		return m, m.reshuffle()

	case key.Matches(msg, m.keys.Faster):
		m.delay = m.delay / 2
		m.viz.SetSpeed(m.delay)
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		if m.delay <= 0 {
			m.delay = time.Millisecond
		}
		m.delay = m.delay * 2
		m.viz.SetSpeed(m.delay)
		return m, nil
	}
	return m, nil
}

// reshuffle discards the finished run, rebuilds the bars from the
// regenerated sequence, and starts a fresh sort.
func (m *model) reshuffle() tea.Cmd {
	m.viz.Reset()
	m.bars = m.viz.Sequence()
	m.outcome = nil
	m.paused = false
	return m.startSort()
}

// apply mirrors one step event onto the local bar state, the same
// mutation vocabulary event.Replay uses.
func (m *model) apply(ev event.StepEvent) {
	switch ev.Kind {
	case event.KindSetState:
		if ev.I >= 0 && ev.I < len(m.bars) {
			m.bars[ev.I].State = ev.State
		}
	case event.KindSwap:
		if ev.I >= 0 && ev.I < len(m.bars) && ev.J >= 0 && ev.J < len(m.bars) {
			m.bars[ev.I], m.bars[ev.J] = m.bars[ev.J], m.bars[ev.I]
		}
	case event.KindOverwrite:
		if ev.I >= 0 && ev.I < len(m.bars) {
			state := m.bars[ev.I].State
			m.bars[ev.I] = ev.Source
			m.bars[ev.I].State = state
		}
	}
}

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	chartHeight := m.height - 3
	if chartHeight < 1 {
		chartHeight = 1
	}
	cols := len(m.bars)
	if cols > m.width {
		cols = m.width
	}

	maxVal := 1
	for _, b := range m.bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}

	var b strings.Builder
	for row := chartHeight; row >= 1; row-- {
		for i := 0; i < cols; i++ {
			bar := m.bars[i]
			h := bar.Value * chartHeight / maxVal
			if h < 1 {
				h = 1
			}
			if h >= row {
				b.WriteString(stateStyles[bar.State].Render("█"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *model) statusLine() string {
	s := m.viz.Statistics()
	state := "running"
	switch {
	case m.outcome != nil:
		state = m.outcome.String()
	case m.paused:
		state = "paused"
	}
	head := statusStyle.Render(fmt.Sprintf("%s %s [%s]",
		m.viz.Algorithm(), m.viz.Direction(), state))
	tail := mutedStyle.Render(fmt.Sprintf(
		" cmp %d  swap %d  acc %d  %s  delay %s",
		s.Comparisons, s.Swaps, s.ElementAccesses,
		s.Elapsed.Round(time.Millisecond), m.delay))
	return head + tail
}
