// Package output renders review results for display or machine consumption.
//
// Three formats are supported:
//   - text: the analysis framed by rules under a CODE REVIEW ANALYSIS title (default)
//   - markdown: a PR-comment-friendly document embedding the analysis verbatim
//   - json: the full result plus a run id and the analysis split into sections
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteReport] to write straight to a file or stdout.
package output
