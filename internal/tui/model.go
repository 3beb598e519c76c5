package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meur/moviedeck/internal/collection"
	"github.com/meur/moviedeck/internal/models"
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
)

const (
	fieldTitle = iota
	fieldGenre
	fieldYear
	fieldRating
	fieldCount
)

// stateMsg carries a controller snapshot.
type stateMsg collection.State

// opDoneMsg reports the outcome of a remote-backed operation.
type opDoneMsg struct {
	op    string
	label string
	err   error
}

// controller is the slice of collection.Controller the UI drives.
type controller interface {
	Initialize(ctx context.Context) error
	Add(ctx context.Context, draft models.MovieCreate) (models.Movie, error)
	Remove(ctx context.Context, id string) error
	Snapshot() collection.State
}

type model struct {
	ctx    context.Context
	ctrl   controller
	states <-chan collection.State

	state   collection.State
	cursor  int
	mode    mode
	inputs  []textinput.Model
	focus   int
	pending int
	status  string
	failed  bool
	width   int
}

func newModel(ctx context.Context, ctrl controller, states <-chan collection.State) model {
	m := model{
		ctx:     ctx,
		ctrl:    ctrl,
		states:  states,
		state:   ctrl.Snapshot(),
		inputs:  make([]textinput.Model, fieldCount),
		pending: 1,
		status:  "Loading movies…",
	}

	placeholders := []string{"Title", "Genre", "Year", "Rating"}
	limits := []int{200, 60, 4, 4}
	widths := []int{40, 20, 6, 6}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = widths[i]
		m.inputs[i] = in
	}
	return m
}

// Init subscribes to state changes and starts the initial fetch, which
// newModel already counts as pending.
func (m model) Init() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return tea.Batch(waitForState(m.states), func() tea.Msg {
		return opDoneMsg{op: "fetch", err: ctrl.Initialize(ctx)}
	})
}

func waitForState(states <-chan collection.State) tea.Cmd {
	if states == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

// run starts fn in a command and counts it as pending until it reports back.
func (m *model) run(op, label string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, label: label, err: fn(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case stateMsg:
		m.state = collection.State(msg)
		m.clampCursor()
		return m, waitForState(m.states)
	case opDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.applyResult(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *model) applyResult(msg opDoneMsg) {
	if msg.err != nil {
		m.failed = true
		m.status = describeFailure(msg.op, msg.err)
		return
	}
	m.failed = false
	switch msg.op {
	case "fetch":
		m.status = "Synced with server"
	case "create":
		m.status = fmt.Sprintf("Added %q", msg.label)
	case "delete":
		m.status = fmt.Sprintf("Removed %q", msg.label)
	}
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Movies)-1 {
			m.cursor++
		}
	case "a", "n":
		m.mode = modeForm
		m.focus = fieldTitle
		return m, m.focusInput()
	case "d", "x", "delete":
		if m.cursor < 0 || m.cursor >= len(m.state.Movies) {
			return m, nil
		}
		target := m.state.Movies[m.cursor]
		m.status = fmt.Sprintf("Removing %q…", target.Title)
		m.failed = false
		return m, m.run("delete", target.Title, func(ctx context.Context) error {
			return m.ctrl.Remove(ctx, target.ID)
		})
	case "r":
		m.status = "Refreshing…"
		m.failed = false
		return m, m.run("fetch", "", func(ctx context.Context) error {
			return m.ctrl.Initialize(ctx)
		})
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % fieldCount
		return m, m.focusInput()
	case "shift+tab", "up":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, m.focusInput()
	case "enter":
		draft, err := parseDraft(m.values())
		if err != nil {
			m.failed = true
			m.status = err.Error()
			return m, nil
		}
		m.closeForm()
		m.status = fmt.Sprintf("Adding %q…", draft.Title)
		m.failed = false
		return m, m.run("create", draft.Title, func(ctx context.Context) error {
			_, err := m.ctrl.Add(ctx, draft)
			return err
		})
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *model) focusInput() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *model) closeForm() {
	m.mode = modeBrowse
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
}

func (m model) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = in.Value()
	}
	return out
}

func (m *model) clampCursor() {
	if m.cursor >= len(m.state.Movies) {
		m.cursor = len(m.state.Movies) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// parseDraft turns raw form values (title, genre, year, rating) into a draft.
// Year and rating may be left blank.
func parseDraft(values []string) (models.MovieCreate, error) {
	get := func(i int) string {
		if i < len(values) {
			return strings.TrimSpace(values[i])
		}
		return ""
	}

	draft := models.MovieCreate{
		Title: get(fieldTitle),
		Genre: get(fieldGenre),
	}
	if err := draft.Validate(); err != nil {
		return models.MovieCreate{}, errors.New("Title is required")
	}
	if raw := get(fieldYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1800 || year > 3000 {
			return models.MovieCreate{}, fmt.Errorf("Year %q is not a valid year", raw)
		}
		draft.Year = year
	}
	if raw := get(fieldRating); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 10 {
			return models.MovieCreate{}, fmt.Errorf("Rating %q must be between 0 and 10", raw)
		}
		draft.Rating = rating
	}
	return draft, nil
}

func describeFailure(op string, err error) string {
	switch {
	case errors.Is(err, collection.ErrFetchFailure):
		return "Could not load movies from the server, showing what we have: " + err.Error()
	case errors.Is(err, collection.ErrCreateFailure):
		return "Could not add movie: " + err.Error()
	case errors.Is(err, collection.ErrDeleteFailure):
		return "Could not remove movie: " + err.Error()
	}
	return fmt.Sprintf("%s failed: %v", op, err)
}
