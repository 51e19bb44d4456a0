package bubbletea

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rfcli"
	rflipgloss "github.com/fwojciec/rfcli/lipgloss"
)

// Ensure Picker implements rfcli.Picker at compile time.
var _ rfcli.Picker = (*Picker)(nil)

// Picker runs the fuzzy picker as a full-screen terminal program.
type Picker struct {
	Searcher rfcli.Searcher
	Limit    int

	// Input and Output default to the process's stdin and stderr.
	Input  io.Reader
	Output *os.File
}

// NewPicker creates a Picker over searcher.
func NewPicker(searcher rfcli.Searcher) *Picker {
	return &Picker{Searcher: searcher, Limit: DefaultLimit}
}

// Pick shows the picker until the user selects an RFC or aborts.
func (p *Picker) Pick(ctx context.Context, query string) (int, bool, error) {
	out := p.Output
	if out == nil {
		out = os.Stderr
	}
	renderer := rflipgloss.NewRenderer(out, rflipgloss.TermWidth(out)-2)
	m := NewModel(ctx, p.Searcher, query, renderer)
	if p.Limit > 0 {
		m.limit = p.Limit
	}

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	}
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, false, rfcli.Wrap(rfcli.EINTERNAL, err, "run picker")
	}

	fm, ok := final.(*Model)
	if !ok {
		return 0, false, rfcli.Errorf(rfcli.EINTERNAL, "unexpected picker model %T", final)
	}
	if err := fm.Err(); err != nil {
		return 0, false, err
	}
	n, ok := fm.Chosen()
	return n, ok, nil
}
