package output

import (
	"io"

	"github.com/dshills/breakcheck/internal/review"
)

// MarkdownWriter outputs the analysis as a markdown document suitable for a
// PR comment. The analysis is already markdown and is embedded verbatim.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, result *review.Result) error {
	ew := &errWriter{w: w}
	ew.printf("## Breaking Change Review\n\n")

	if result.Empty() {
		ew.println(noChangesMessage)
		return ew.err
	}

	ew.printf("**Files reviewed (%d):**\n\n", len(result.Changes))
	for _, c := range result.Changes {
		ew.printf("- `%s` %s\n", c.Path, statsLabel(c.Stats))
	}
	if len(result.Dropped) > 0 {
		ew.printf("\n**Left out by the diff size limit:**\n\n")
		for _, p := range result.Dropped {
			ew.printf("- `%s`\n", p)
		}
	}

	ew.printf("\n---\n\n%s\n\n---\n\n", result.Analysis)
	ew.printf("*Reviewed with %s in %dms (git: %dms, LLM: %dms)*\n",
		result.Model, result.Timing.TotalMs, result.Timing.GitMs, result.Timing.LLMMs)
	return ew.err
}
