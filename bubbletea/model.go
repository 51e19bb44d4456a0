// Package bubbletea implements the interactive RFC picker.
package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rfcli"
	rflipgloss "github.com/fwojciec/rfcli/lipgloss"
)

// DefaultLimit caps how many results a query shows.
const DefaultLimit = 200

// ResultsMsg carries the outcome of a search.
type ResultsMsg struct {
	Query   string
	Results []rfcli.QueryResult
	Err     error
}

// Model is the picker's bubbletea model. Every edit of the query runs a
// new search; results for outdated queries are discarded.
type Model struct {
	ctx      context.Context
	searcher rfcli.Searcher
	renderer *rflipgloss.Renderer
	limit    int

	input   textinput.Model
	results []rfcli.QueryResult
	cursor  int
	offset  int
	height  int

	chosen  int
	aborted bool
	err     error
}

// NewModel creates a picker model starting from query.
func NewModel(ctx context.Context, searcher rfcli.Searcher, query string, renderer *rflipgloss.Renderer) *Model {
	ti := textinput.New()
	ti.Prompt = "rfc> "
	ti.Placeholder = "number, title or keyword"
	ti.CharLimit = 256
	ti.SetValue(query)
	ti.Focus()

	return &Model{
		ctx:      ctx,
		searcher: searcher,
		renderer: renderer,
		limit:    DefaultLimit,
		input:    ti,
		height:   24,
	}
}

// Init starts the cursor blink and the initial search.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Search(m.input.Value()))
}

// Search returns a command that runs query against the searcher.
func (m *Model) Search(query string) tea.Cmd {
	ctx, searcher, limit := m.ctx, m.searcher, m.limit
	return func() tea.Msg {
		results, err := searcher.Search(ctx, query, limit)
		return ResultsMsg{Query: query, Results: results, Err: err}
	}
}

// Update handles key presses, window resizes and search results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.renderer = rflipgloss.NewRendererWithStyles(m.renderer.Styles(), msg.Width-2)
		m.clamp()
		return m, nil

	case ResultsMsg:
		if msg.Query != m.input.Value() {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, tea.Quit
		}
		m.results = msg.Results
		m.cursor, m.offset = 0, 0
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		if len(m.results) == 0 {
			return m, nil
		}
		m.chosen = m.results[m.cursor].Number
		return m, tea.Quit
	case tea.KeyUp, tea.KeyCtrlP, tea.KeyCtrlK:
		m.move(-1)
		return m, nil
	case tea.KeyDown, tea.KeyCtrlN, tea.KeyCtrlJ:
		m.move(1)
		return m, nil
	case tea.KeyPgUp:
		m.move(-m.visible())
		return m, nil
	case tea.KeyPgDown:
		m.move(m.visible())
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return m, tea.Batch(cmd, m.Search(after))
	}
	return m, cmd
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clamp()
}

func (m *Model) clamp() {
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	v := m.visible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+v {
		m.offset = m.cursor - v + 1
	}
}

// visible returns how many result rows fit below the prompt and above the
// status line.
func (m *Model) visible() int {
	return max(m.height-2, 1)
}

// View renders the prompt, the visible results and a status line.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	styles := m.renderer.Styles()
	end := min(m.offset+m.visible(), len(m.results))
	for i := m.offset; i < end; i++ {
		line := m.renderer.Result(m.results[i])
		if i == m.cursor {
			b.WriteString(styles.Selected.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%d results", len(m.results))
	if len(m.results) > 0 {
		status = fmt.Sprintf("%d/%d", m.cursor+1, len(m.results))
	}
	b.WriteString(styles.Muted.Render(status))
	return b.String()
}

// Query returns the current query text.
func (m *Model) Query() string {
	return m.input.Value()
}

// Results returns the results currently displayed.
func (m *Model) Results() []rfcli.QueryResult {
	return m.results
}

// Cursor returns the index of the highlighted result.
func (m *Model) Cursor() int {
	return m.cursor
}

// Chosen returns the selected RFC number. The bool result is false if the
// user aborted or nothing was selected.
func (m *Model) Chosen() (int, bool) {
	if m.aborted || m.chosen == 0 {
		return 0, false
	}
	return m.chosen, true
}

// Err returns the search error that ended the picker, if any.
func (m *Model) Err() error {
	return m.err
}
