package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/breakcheck/internal/gitctx"
	"github.com/dshills/breakcheck/internal/review"
)

const ruleWidth = 80

// TextWriter outputs the analysis framed for a terminal.
type TextWriter struct {
	// Color enables ANSI styling of headings.
	Color bool
}

func (t *TextWriter) Write(w io.Writer, result *review.Result) error {
	ew := &errWriter{w: w}
	title, dim := t.styles(w)

	if result.Empty() {
		ew.println(noChangesMessage)
		return ew.err
	}

	ew.printf("Modified files (%d):\n", len(result.Changes))
	for _, c := range result.Changes {
		ew.printf("  - %s  %s\n", c.Path, dim(statsLabel(c.Stats)))
	}
	if len(result.Dropped) > 0 {
		ew.printf("Left out by the diff size limit (%d):\n", len(result.Dropped))
		for _, p := range result.Dropped {
			ew.printf("  - %s\n", p)
		}
	}

	rule := strings.Repeat("=", ruleWidth)
	ew.println("")
	ew.println(title("CODE REVIEW ANALYSIS"))
	ew.println(rule)
	ew.println(result.Analysis)
	ew.println(rule)
	ew.println(dim(fmt.Sprintf("Completed in %dms (git: %dms, LLM: %dms)",
		result.Timing.TotalMs, result.Timing.GitMs, result.Timing.LLMMs)))

	return ew.err
}

func (t *TextWriter) styles(w io.Writer) (title, dim func(string) string) {
	if !t.Color {
		plain := func(s string) string { return s }
		return plain, plain
	}
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("8"))
	return func(s string) string { return titleStyle.Render(s) },
		func(s string) string { return dimStyle.Render(s) }
}

func statsLabel(s gitctx.Stats) string {
	if s.Binary {
		return "(binary)"
	}
	return fmt.Sprintf("(+%d -%d)", s.Added, s.Deleted)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
