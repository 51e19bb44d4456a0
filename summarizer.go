package rfcli

import (
	"context"
	"fmt"
)

// Summarizer derives a TLDR from cleaned RFC text.
type Summarizer interface {
	// Summarize returns a short summary of RFC number.
	// Returns EDERIVE if the summary cannot be produced.
	Summarize(ctx context.Context, number int, text string) (string, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// TLDRService returns TLDRs and raw bodies, consulting the cache before
// any external fetch.
type TLDRService interface {
	// TLDR returns the summary of an RFC.
	TLDR(ctx context.Context, number int) (string, error)

	// Raw returns the raw text of an RFC.
	Raw(ctx context.Context, number int) ([]byte, error)
}

// SummaryInstruction is the system instruction given to language models
// asked for a TLDR.
const SummaryInstruction = "You are a Senior Systems Engineer. Summarize the RFC for a terminal UI. " +
	"DO NOT use Markdown bolding (no asterisks). Use a simple 'TITLE: description' format for bullets. " +
	"Keep the elevator pitch at the top."

// SummaryPrompt builds the user prompt asking for a summary of RFC number.
func SummaryPrompt(number int, text string) string {
	return fmt.Sprintf("Summarize RFC %d:\n\n%s", number, text)
}
