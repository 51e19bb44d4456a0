package rfcli

import "context"

// Span is a half-open range [Start, End) of rune offsets.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// QueryResult is a single ranked match.
type QueryResult struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Score  int    `json:"score"`

	// Spans are highlighted ranges within Title, or within the record's
	// excerpt when InExcerpt is set.
	Spans     []Span `json:"spans,omitempty"`
	InExcerpt bool   `json:"inExcerpt,omitempty"`
}

// Searcher ranks catalog records against fuzzy queries.
type Searcher interface {
	// Search returns up to limit results ordered by descending score, ties
	// broken by ascending number. An empty query returns the catalog ordered
	// by number. A limit of zero or less means no limit.
	Search(ctx context.Context, query string, limit int) ([]QueryResult, error)
}

// Picker lets the user choose an RFC interactively.
type Picker interface {
	// Pick starts from query and returns the chosen RFC number. The bool
	// result is false when the user aborted without choosing.
	Pick(ctx context.Context, query string) (int, bool, error)
}
