// Package ui provides the Bubble Tea dispatch board.
package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bites4life/internal/dashboard/client"
	"bites4life/internal/dashboard/state"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeConfirmDelete
)

// chromeHeight is the number of lines around the table: title, banner,
// prompt, status and help.
const chromeHeight = 9

// Options configures the UI.
type Options struct {
	Context    context.Context
	Dispatcher client.Dispatcher
	Store      *state.Store
	Refresh    func() // asks the poller for an immediate refresh; may be nil
	PollTick   time.Duration
	Title      string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx        context.Context
	dispatcher client.Dispatcher
	store      *state.Store
	refresh    func()
	pollTick   time.Duration
	title      string

	keys   keyMap
	styles Styles
	help   help.Model
	table  table.Model
	input  textinput.Model

	mode     mode
	pending  client.Rider
	snapshot state.Snapshot

	status    string
	statusErr bool
	width     int
}

type (
	tickMsg     time.Time
	snapshotMsg state.Snapshot
	actionMsg   struct {
		text string
		err  error
	}
)

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	refresh := opts.Refresh
	if refresh == nil {
		refresh = func() {}
	}

	t := table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithStyles(tableStyles()),
	)

	input := textinput.New()
	input.Placeholder = "Rider name"
	input.CharLimit = 100
	input.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		ctx:        ctx,
		dispatcher: opts.Dispatcher,
		store:      opts.Store,
		refresh:    refresh,
		pollTick:   pollTick,
		title:      opts.Title,
		keys:       DefaultKeyMap(),
		styles:     defaultStyles(),
		help:       help.New(),
		table:      t,
		input:      input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil

	case tickMsg:
		var cmd tea.Cmd
		if m.store != nil {
			cmd = fetchSnapshotCmd(m.store)
		}
		return m, tea.Batch(cmd, tickCmd(m.pollTick))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.status, m.statusErr = msg.text, false
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.table.SetRows(riderRows(snap.Riders))
	if n := len(snap.Riders); m.table.Cursor() >= n {
		m.table.SetCursor(max(n-1, 0))
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd:
		return m.handleAddKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Ring):
		return m.onSelected(func(r client.Rider) tea.Cmd {
			return m.actionCmd("Ringing "+r.Name, func(ctx context.Context) error {
				return m.dispatcher.Ring(ctx, r.Code)
			})
		})

	case key.Matches(msg, m.keys.StopRing):
		return m.onSelected(func(r client.Rider) tea.Cmd {
			return m.actionCmd("Stopped ringing "+r.Name, func(ctx context.Context) error {
				return m.dispatcher.StopRing(ctx, r.Code)
			})
		})

	case key.Matches(msg, m.keys.OnRoute):
		return m.onSelected(func(r client.Rider) tea.Cmd {
			return m.actionCmd(r.Name+" is on route", func(ctx context.Context) error {
				return m.dispatcher.MarkOnRoute(ctx, r.Code)
			})
		})

	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.selected(); ok {
			m.pending = r
			m.mode = modeConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		m.mode = modeBrowse
		m.input.Blur()
		if name == "" {
			return m, nil
		}
		dispatcher, ctx := m.dispatcher, m.ctx
		return m, func() tea.Msg {
			code, err := dispatcher.AddRider(ctx, name)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{text: fmt.Sprintf("Added %s with code %s", name, code)}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		r := m.pending
		m.mode = modeBrowse
		m.pending = client.Rider{}
		return m, m.actionCmd("Deleted "+r.Name, func(ctx context.Context) error {
			return m.dispatcher.DeleteRider(ctx, r.Code)
		})
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.pending = client.Rider{}
	}
	return m, nil
}

func (m Model) selected() (client.Rider, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.snapshot.Riders) {
		return client.Rider{}, false
	}
	return m.snapshot.Riders[idx], true
}

func (m Model) onSelected(build func(client.Rider) tea.Cmd) (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m, build(r)
}

func (m Model) actionCmd(done string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: done}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	parts := []string{m.headerView()}
	if summary := ringingSummary(m.snapshot.Riders); summary != "" {
		parts = append(parts, m.styles.Ringing.Render(summary))
	}
	parts = append(parts, m.styles.Frame.Render(m.table.View()))

	switch m.mode {
	case modeAdd:
		parts = append(parts, m.styles.Prompt.Render("New rider: "+m.input.View()))
	case modeConfirmDelete:
		parts = append(parts, m.styles.Danger.Render(
			fmt.Sprintf("Delete %s (%s)? y/n", m.pending.Name, m.pending.Code)))
	}

	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Danger
		}
		parts = append(parts, style.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) headerView() string {
	left := m.styles.Title.Render("Rider Board")
	if m.title != "" {
		left += " " + m.styles.Muted.Render(m.title)
	}

	var right string
	switch {
	case m.snapshot.IsOffline():
		right = m.styles.Danger.Render("OFFLINE: " + errText(m.snapshot.LastError))
	case m.snapshot.LastError != nil:
		right = m.styles.Danger.Render(errText(m.snapshot.LastError))
	case !m.snapshot.LastUpdated.IsZero():
		right = m.styles.Muted.Render(fmt.Sprintf("%d riders, updated %s",
			len(m.snapshot.Riders), m.snapshot.LastUpdated.Format("15:04:05")))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return "not authorized, start with -email and -password"
	}
	return err.Error()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
