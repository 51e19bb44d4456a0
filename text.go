package rfcli

import (
	"regexp"
	"strings"
)

var (
	pageBreakRe = regexp.MustCompile(`(?m)^.*\[Page \d+\].*$|^RFC \d+.*$`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
)

// CleanText strips pagination artifacts from plain-text RFCs: form feeds,
// page footers ("[Page N]") and running headers ("RFC NNNN ..."), then
// collapses runs of blank lines.
func CleanText(raw string) string {
	s := strings.ReplaceAll(raw, "\f", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = pageBreakRe.ReplaceAllString(s, "")
	return blankRunRe.ReplaceAllString(s, "\n\n")
}

// Head returns the first n lines of text.
func Head(text string, n int) string {
	if n <= 0 {
		return text
	}
	lines := strings.SplitN(text, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// TidySummary splits an LLM summary into display lines. Blank lines and
// conversational filler are dropped and markdown bold markers removed.
func TidySummary(summary string) []string {
	var lines []string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "here is") || strings.Contains(lower, "summary of rfc") {
			continue
		}
		lines = append(lines, strings.ReplaceAll(line, "**", ""))
	}
	return lines
}
