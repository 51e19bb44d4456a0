// Package fuzzy scores ordered-subsequence matches of a query against
// candidate text.
//
// A pattern matches a candidate when every pattern rune appears in the
// candidate in order, not necessarily contiguously. Among all such
// alignments Match picks the one with the highest score, rewarding
// contiguous runs, word-boundary starts, early first matches, and short
// candidates.
package fuzzy

import (
	"unicode"

	"github.com/fwojciec/rfcli"
)

// Scoring constants.
const (
	scoreMatch       = 16
	bonusBoundary    = 8
	bonusFirstRune   = 4
	bonusTransition  = 4
	bonusConsecutive = 12
	penaltyGapStart  = 3
	penaltyGapExtend = 1
	maxLeadPenalty   = 10
	lengthDivisor    = 10
)

const invalid = -1 << 30

// Normalize lower-cases a query and drops everything but letters and digits.
func Normalize(query string) []rune {
	out := make([]rune, 0, len(query))
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
		}
	}
	return out
}

// Match scores pattern against text. The pattern must already be
// normalized. Positions are rune offsets into text, one per pattern rune.
// ok is false when pattern is not a subsequence of text.
func Match(pattern []rune, text string) (score int, positions []int, ok bool) {
	var mt Matcher
	return mt.Match(pattern, NewCandidate(text))
}

// Candidate is text prepared for repeated matching: lower-cased runes,
// per-position bonuses and a set of the ASCII letters and digits it holds.
type Candidate struct {
	lower []rune
	bonus []int
	mask  uint64
}

// NewCandidate prepares text for matching.
func NewCandidate(text string) *Candidate {
	cand := []rune(text)
	c := &Candidate{
		lower: make([]rune, len(cand)),
		bonus: make([]int, len(cand)),
	}
	for j, r := range cand {
		l := unicode.ToLower(r)
		c.lower[j] = l
		c.bonus[j] = positionBonus(cand, j)
		c.mask |= runeBit(l)
	}
	return c
}

// Len returns the candidate length in runes.
func (c *Candidate) Len() int {
	return len(c.lower)
}

func runeBit(r rune) uint64 {
	switch {
	case r >= 'a' && r <= 'z':
		return 1 << (r - 'a')
	case r >= '0' && r <= '9':
		return 1 << (26 + r - '0')
	}
	return 0
}

// Matcher scores patterns against candidates, reusing its scratch buffers
// between calls. The zero value is ready to use. A Matcher must not be
// shared between goroutines.
type Matcher struct {
	lo, hi  []int
	h, from []int
}

// Match scores pattern against c. See the package-level Match.
func (mt *Matcher) Match(pattern []rune, c *Candidate) (score int, positions []int, ok bool) {
	m, n := len(pattern), len(c.lower)
	if m == 0 {
		return 0, nil, true
	}
	if m > n {
		return 0, nil, false
	}
	var need uint64
	for _, r := range pattern {
		need |= runeBit(r)
	}
	if need&^c.mask != 0 {
		return 0, nil, false
	}
	lower, bonus := c.lower, c.bonus

	// lo[i] is the earliest and hi[i] the latest position pattern[i] can
	// occupy in any complete alignment. Rows are scored only inside that
	// window, so the scan stops as soon as the rest of the pattern cannot fit.
	mt.lo, mt.hi = grow(mt.lo, m), grow(mt.hi, m)
	lo, hi := mt.lo, mt.hi
	j := 0
	for i := 0; i < m; i++ {
		for j < n && lower[j] != pattern[i] {
			j++
		}
		if j == n {
			return 0, nil, false
		}
		lo[i] = j
		j++
	}
	j = n - 1
	for i := m - 1; i >= 0; i-- {
		for lower[j] != pattern[i] {
			j--
		}
		hi[i] = j
		j--
	}

	// Tables cover only columns base..hi[m-1]; column k is position base+k.
	base := lo[0]
	w := hi[m-1] - base + 1
	mt.h, mt.from = grow(mt.h, m*w), grow(mt.from, m*w)
	h, from := mt.h, mt.from
	for k := range h {
		h[k] = invalid
	}

	for j := lo[0]; j <= hi[0]; j++ {
		if lower[j] != pattern[0] {
			continue
		}
		lead := min(j, maxLeadPenalty)
		h[j-base] = scoreMatch + bonus[j] - lead
		from[j-base] = -1
	}

	for i := 1; i < m; i++ {
		prev := h[(i-1)*w : i*w]
		row := h[i*w : (i+1)*w]
		back := from[i*w : (i+1)*w]

		// gapBest carries the best predecessor at least two columns back,
		// already charged for the gap extension up to the current column.
		gapBest, gapFrom := invalid, -1
		for j := lo[i-1] + 1; j <= hi[i]; j++ {
			k := j - base
			if k >= 2 && prev[k-2] != invalid {
				if gapBest == invalid || prev[k-2] > gapBest-penaltyGapExtend {
					gapBest, gapFrom = prev[k-2], j-2
				} else {
					gapBest -= penaltyGapExtend
				}
			} else if gapBest != invalid {
				gapBest -= penaltyGapExtend
			}

			if lower[j] != pattern[i] {
				continue
			}

			best, bestFrom := invalid, -1
			if k >= 1 && prev[k-1] != invalid {
				best, bestFrom = prev[k-1]+bonusConsecutive, j-1
			}
			if gapBest != invalid && gapBest-penaltyGapStart > best {
				best, bestFrom = gapBest-penaltyGapStart, gapFrom
			}
			if best == invalid {
				continue
			}
			row[k] = best + scoreMatch + bonus[j]
			back[k] = bestFrom
		}
	}

	last := h[(m-1)*w : m*w]
	end := -1
	for j := lo[m-1]; j <= hi[m-1]; j++ {
		if last[j-base] != invalid && (end < 0 || last[j-base] > last[end-base]) {
			end = j
		}
	}
	if end < 0 {
		return 0, nil, false
	}

	positions = make([]int, m)
	for i, j := m-1, end; i >= 0; i-- {
		positions[i] = j
		j = from[i*w+j-base]
	}
	return last[end-base] - n/lengthDivisor, positions, true
}

func grow(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}

// positionBonus rewards matches that start a word.
func positionBonus(cand []rune, j int) int {
	if j == 0 {
		return bonusBoundary + bonusFirstRune
	}
	prev, cur := cand[j-1], cand[j]
	switch {
	case !unicode.IsLetter(prev) && !unicode.IsDigit(prev):
		return bonusBoundary
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return bonusTransition
	case unicode.IsLetter(prev) != unicode.IsLetter(cur):
		return bonusTransition
	}
	return 0
}

// Spans merges sorted positions into half-open runs.
func Spans(positions []int) []rfcli.Span {
	var spans []rfcli.Span
	for _, p := range positions {
		if k := len(spans) - 1; k >= 0 && spans[k].End == p {
			spans[k].End++
			continue
		}
		spans = append(spans, rfcli.Span{Start: p, End: p + 1})
	}
	return spans
}
