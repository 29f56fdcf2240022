package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/breakcheck/internal/gitctx"
	"github.com/dshills/breakcheck/internal/logging"
	"github.com/dshills/breakcheck/internal/providers"
	"github.com/dshills/breakcheck/internal/redact"
)

// Options tunes a Pipeline.
type Options struct {
	// Concurrency bounds parallel per-file diff retrieval.
	Concurrency int
	// MaxDiffBytes caps the combined diff size sent for analysis; 0 means no cap.
	MaxDiffBytes int
	Temperature  float64
	// Model is recorded in the Result; the Reviewer decides what is sent.
	Model   string
	Privacy redact.Policy
}

// DefaultOptions returns sequential collection, no size cap, no redaction and
// the default sampling temperature.
func DefaultOptions() Options {
	return Options{
		Concurrency: 1,
		Temperature: providers.DefaultTemperature,
		Model:       providers.DefaultModel,
	}
}

// Pipeline wires the review stages together. Every collaborator is explicit;
// a Pipeline holds no state between runs and may be reused concurrently.
type Pipeline struct {
	Runner   gitctx.Runner
	Reviewer providers.Reviewer
	Logger   *slog.Logger
	Options  Options
}

// NewPipeline creates a Pipeline with DefaultOptions.
func NewPipeline(runner gitctx.Runner, reviewer providers.Reviewer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Runner:   runner,
		Reviewer: reviewer,
		Logger:   logger,
		Options:  DefaultOptions(),
	}
}

// Run reviews the unstaged changes of the working tree containing dir.
//
// It returns a Result with StatusEmpty, and makes no network call, when there
// is nothing to review. Validation, listing and service failures are returned
// as errors and no Result is produced.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Result, error) {
	if p.Runner == nil || p.Reviewer == nil {
		return nil, errors.New("review pipeline requires a git runner and a reviewer")
	}
	log := p.logger()
	startTime := time.Now()

	log.Info("validating git repository", "dir", dir)
	if err := gitctx.Validate(ctx, p.Runner, dir); err != nil {
		return nil, err
	}
	meta := gitctx.GetRepoMeta(ctx, p.Runner, dir)

	log.Info("collecting unstaged changes")
	collector := &gitctx.Collector{
		Runner:      p.Runner,
		Logger:      log,
		Concurrency: p.Options.Concurrency,
	}
	changes, err := collector.Unstaged(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("collecting unstaged changes: %w", err)
	}
	gitMs := time.Since(startTime).Milliseconds()

	result := &Result{
		Dir:   dir,
		Repo:  meta,
		Model: p.Options.Model,
	}

	if len(changes) == 0 {
		log.Info("no unstaged changes found in the repository")
		result.Status = StatusEmpty
		result.Changes = []Change{}
		result.Timing = Timing{GitMs: gitMs, TotalMs: time.Since(startTime).Milliseconds()}
		return result, nil
	}

	changes, dropped := ApplyBudget(changes, p.Options.MaxDiffBytes)
	for _, path := range dropped {
		log.Warn("file left out: diff size budget exceeded", "file", path, "maxDiffBytes", p.Options.MaxDiffBytes)
	}

	log.Info("found modified files", "count", len(changes))
	for _, c := range changes {
		log.Info("modified", "file", c.Path, "added", c.Stats.Added, "deleted", c.Stats.Deleted, "binary", c.Stats.Binary)
	}

	outgoing, redactions := p.redact(changes)
	if redactions > 0 {
		log.Info("redacted secrets from diffs", "count", redactions)
	}

	req := providers.ReviewRequest{
		SystemPrompt: SystemPrompt(),
		UserPrompt:   BuildUserPrompt(outgoing),
		Temperature:  p.Options.Temperature,
	}

	log.Info("analyzing changes", "provider", p.Reviewer.Name(), "bytes", len(req.UserPrompt))
	llmStart := time.Now()
	resp, err := p.Reviewer.Review(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyzing changes: %w", err)
	}
	llmMs := time.Since(llmStart).Milliseconds()
	log.Debug("analysis received", "tokens", resp.TokensUsed, "ms", llmMs)

	result.Status = StatusReviewed
	result.Changes = changes
	result.Dropped = dropped
	result.Redactions = redactions
	result.Analysis = resp.Content
	result.TokensUsed = resp.TokensUsed
	result.Timing = Timing{
		GitMs:   gitMs,
		LLMMs:   llmMs,
		TotalMs: time.Since(startTime).Milliseconds(),
	}
	return result, nil
}

// redact returns copies of changes scrubbed by the privacy policy.
func (p *Pipeline) redact(changes []Change) ([]Change, int) {
	policy := p.Options.Privacy
	if !policy.Enabled() {
		return changes, 0
	}
	out := make([]Change, len(changes))
	total := 0
	for i, c := range changes {
		diff, n := policy.Apply(c.Path, c.Diff)
		c.Diff = diff
		out[i] = c
		total += n
	}
	return out, total
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return logging.Discard()
	}
	return p.Logger
}
