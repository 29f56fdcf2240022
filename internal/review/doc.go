// Package review runs the breaking-change review pipeline.
//
// A [Pipeline] validates the target directory, collects its unstaged changes,
// renders them into a single prompt and asks a [providers.Reviewer] for an
// analysis. The pipeline is strictly linear:
//
//	validate -> collect -> (empty: done) | (prompt -> call -> done)
//
// An empty change set is a successful [Result] with [StatusEmpty] and no
// network call. Any other failure aborts the run and is returned wrapped with
// %w so callers can classify it with errors.Is.
//
// Prompt construction (prompt.go) is pure and deterministic: the same ordered
// changes always produce byte-identical prompt text.
package review
