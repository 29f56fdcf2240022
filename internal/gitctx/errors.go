package gitctx

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotRepository indicates the target directory is not a git working tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrToolInvocation indicates git could not be executed.
	ErrToolInvocation = errors.New("git invocation failed")

	// ErrDiffList indicates the list of modified files could not be obtained.
	ErrDiffList = errors.New("listing unstaged changes failed")

	// ErrEncoding indicates git produced output that is not valid UTF-8.
	ErrEncoding = errors.New("git output is not valid UTF-8")
)

// NotRepositoryError carries the directory that failed validation.
type NotRepositoryError struct {
	Path   string
	Stderr string
}

func (e *NotRepositoryError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("the directory '%s' is not a git repository: %s", e.Path, e.Stderr)
	}
	return fmt.Sprintf("the directory '%s' is not a git repository", e.Path)
}

func (e *NotRepositoryError) Is(target error) bool { return target == ErrNotRepository }

// ToolError reports that git itself could not be started.
type ToolError struct {
	Args []string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("failed to execute git %s (is git installed?): %v", strings.Join(e.Args, " "), e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

func (e *ToolError) Is(target error) bool { return target == ErrToolInvocation }

// ListError reports a failed listing of unstaged files.
type ListError struct {
	Stderr string
	Err    error
}

func (e *ListError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("failed to get git diff: %s", e.Stderr)
	}
	return fmt.Sprintf("failed to get git diff: %v", e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

func (e *ListError) Is(target error) bool { return target == ErrDiffList }

// EncodingError reports non UTF-8 output. Step is "list" or the file path.
type EncodingError struct {
	Step string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("git output for %s is not valid UTF-8", e.Step)
}

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }
