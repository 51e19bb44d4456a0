// Package lipgloss renders rfcli output for the terminal: TLDR boxes,
// search results with highlighted matches and catalog listings.
package lipgloss

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/rfcli"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

const minWidth = 20

// TermWidth returns the column count of f, or DefaultWidth when f is not
// a terminal.
func TermWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Styles holds the styles used by Renderer.
type Styles struct {
	Box      lipgloss.Style
	Header   lipgloss.Style
	Number   lipgloss.Style
	Pitch    lipgloss.Style
	Bullet   lipgloss.Style
	Match    lipgloss.Style
	Muted    lipgloss.Style
	Status   lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns styles bound to r.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	cyan := lipgloss.Color("#06B6D4")
	yellow := lipgloss.Color("#F9E2AF")
	magenta := lipgloss.Color("#CBA6F7")
	muted := lipgloss.Color("#6C7086")
	return Styles{
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Bold(true).
			Padding(0, 1),
		Header:   r.NewStyle().Bold(true),
		Number:   r.NewStyle().Bold(true).Foreground(yellow),
		Pitch:    r.NewStyle().Bold(true),
		Bullet:   r.NewStyle().Foreground(cyan),
		Match:    r.NewStyle().Bold(true).Foreground(magenta),
		Muted:    r.NewStyle().Foreground(muted),
		Status:   r.NewStyle().Foreground(cyan),
		Selected: r.NewStyle().Bold(true).Foreground(yellow),
	}
}

// Renderer formats domain values for a writer of a given width.
type Renderer struct {
	styles Styles
	width  int
}

// NewRenderer creates a Renderer whose color profile follows w.
func NewRenderer(w io.Writer, width int) *Renderer {
	return NewRendererWithStyles(DefaultStyles(lipgloss.NewRenderer(w)), width)
}

// NewRendererWithStyles creates a Renderer using s.
func NewRendererWithStyles(s Styles, width int) *Renderer {
	if width < minWidth {
		width = minWidth
	}
	return &Renderer{styles: s, width: width}
}

// Width returns the rendering width.
func (r *Renderer) Width() int {
	return r.width
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// TLDR renders a summary under an "RFC N" header box. The first line is
// the elevator pitch; lines starting with "*" or "-" become bullets with
// a hanging indent.
func (r *Renderer) TLDR(number int, summary string) string {
	boxWidth := min(r.width-2, 60)
	header := r.styles.Header.Render("RFC") + " " + r.styles.Number.Render(fmt.Sprint(number))
	box := r.styles.Box.Width(boxWidth).Render(header)

	var b strings.Builder
	b.WriteString(box)
	b.WriteString("\n")
	for i, line := range rfcli.TidySummary(summary) {
		if text, ok := bullet(line); ok {
			for j, w := range wrap(text, r.width-8) {
				if j == 0 {
					b.WriteString("  " + r.styles.Bullet.Render("•") + " " + w + "\n")
				} else {
					b.WriteString("    " + w + "\n")
				}
			}
			continue
		}
		for _, w := range wrap(line, r.width-6) {
			if i == 0 {
				w = r.styles.Pitch.Render(w)
			}
			b.WriteString("  " + w + "\n")
		}
	}
	return b.String()
}

func bullet(line string) (string, bool) {
	if strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "- ") || line == "*" || line == "-" {
		return strings.TrimSpace(line[1:]), true
	}
	return line, false
}

// wrap breaks s into lines of at most width columns on word boundaries.
// Words longer than width are kept whole.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		switch {
		case cur.Len() == 0:
			cur.WriteString(word)
		case lipgloss.Width(cur.String())+1+lipgloss.Width(word) > width:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
		default:
			cur.WriteString(" ")
			cur.WriteString(word)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Highlight renders s with the runes covered by spans in the match style.
func (r *Renderer) Highlight(s string, spans []rfcli.Span) string {
	if len(spans) == 0 {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		start := max(sp.Start, pos)
		end := min(sp.End, len(runes))
		if start >= end {
			continue
		}
		b.WriteString(string(runes[pos:start]))
		b.WriteString(r.styles.Match.Render(string(runes[start:end])))
		pos = end
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}

// Result renders one search result on a single line. Titles are truncated
// to the renderer width; highlights are dropped when truncation applies.
func (r *Renderer) Result(res rfcli.QueryResult) string {
	label := r.styles.Number.Render(fmt.Sprintf("%-9s", fmt.Sprintf("RFC %d", res.Number)))
	avail := r.width - 10
	title := res.Title
	if lipgloss.Width(title) > avail {
		return label + " " + truncate(title, avail)
	}
	if !res.InExcerpt {
		title = r.Highlight(title, res.Spans)
	}
	return label + " " + title
}

// Record renders a catalog record for listings.
func (r *Renderer) Record(rec *rfcli.Record) string {
	var flags []string
	if rec.Cache != nil && rec.Cache.HasBody {
		flags = append(flags, "cached")
	}
	if rec.Cache != nil && rec.Cache.HasTLDR {
		flags = append(flags, "tldr")
	}
	meta := string(rec.Status)
	if !rec.Date.IsZero() {
		meta += ", " + rec.Date.String()
	}
	if len(flags) > 0 {
		meta += ", " + strings.Join(flags, ", ")
	}
	label := r.styles.Number.Render(fmt.Sprintf("%-9s", rec.Label()))
	return label + " " + rec.Title + " " + r.styles.Muted.Render("("+meta+")")
}

func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimRight(string(runes), " ") + "…"
}
