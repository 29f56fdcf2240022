package review

import (
	"github.com/dshills/breakcheck/internal/gitctx"
)

// Change is one file with unstaged modifications.
type Change = gitctx.Change

// Status is the terminal state of a successful run.
type Status string

const (
	// StatusEmpty means there were no unstaged changes to review.
	StatusEmpty Status = "empty"
	// StatusReviewed means the changes were analyzed.
	StatusReviewed Status = "reviewed"
)

// Timing contains performance metrics.
type Timing struct {
	GitMs   int64 `json:"gitMs"`
	LLMMs   int64 `json:"llmMs"`
	TotalMs int64 `json:"totalMs"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	Status Status          `json:"status"`
	Dir    string          `json:"dir"`
	Repo   gitctx.RepoMeta `json:"repo"`
	Model  string          `json:"model,omitempty"`
	// Changes are the files that were sent for analysis, in listing order.
	Changes []Change `json:"changes"`
	// Dropped lists files left out by the diff size budget.
	Dropped    []string `json:"dropped,omitempty"`
	Redactions int      `json:"redactions,omitempty"`
	// Analysis is the service's reply, shown verbatim.
	Analysis   string `json:"analysis,omitempty"`
	TokensUsed int    `json:"tokensUsed,omitempty"`
	Timing     Timing `json:"timing"`
}

// Empty reports whether the run found nothing to review.
func (r *Result) Empty() bool {
	return r.Status == StatusEmpty
}

// Paths returns the reviewed file paths in order.
func (r *Result) Paths() []string {
	paths := make([]string, 0, len(r.Changes))
	for _, c := range r.Changes {
		paths = append(paths, c.Path)
	}
	return paths
}
