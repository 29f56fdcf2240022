package gitctx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"golang.org/x/sync/errgroup"
)

// Change is one file with unstaged modifications.
type Change struct {
	// Path is relative to the reviewed directory.
	Path string `json:"path"`
	// Diff is the literal unified diff. Never blank.
	Diff  string `json:"-"`
	Stats Stats  `json:"stats"`
}

// Stats summarizes a change. Informational only.
type Stats struct {
	Added   int  `json:"added"`
	Deleted int  `json:"deleted"`
	Binary  bool `json:"binary,omitempty"`
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

var statusArgs = []string{"status", "--porcelain"}

// Validate reports whether dir is inside a usable git working tree.
// It returns a *NotRepositoryError when git rejects the directory and a
// *ToolError when git cannot be executed.
func Validate(ctx context.Context, r Runner, dir string) error {
	_, err := r.Run(ctx, dir, statusArgs...)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return &NotRepositoryError{Path: dir, Stderr: exitErr.Stderr}
	}
	return &ToolError{Args: statusArgs, Err: err}
}

// GetRepoMeta collects repository metadata. Missing values are left empty
// (for example HEAD in a repository without commits).
func GetRepoMeta(ctx context.Context, r Runner, dir string) RepoMeta {
	var meta RepoMeta
	if out, err := r.Run(ctx, dir, "rev-parse", "--show-toplevel"); err == nil {
		meta.Root = strings.TrimSpace(string(out))
	}
	if out, err := r.Run(ctx, dir, "rev-parse", "HEAD"); err == nil {
		meta.Head = strings.TrimSpace(string(out))
	}
	if out, err := r.Run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		meta.Branch = strings.TrimSpace(string(out))
	}
	return meta
}

// Collector gathers unstaged changes from a working tree.
type Collector struct {
	Runner Runner
	Logger *slog.Logger
	// Concurrency bounds parallel per-file diff retrieval. Values below 1 mean 1.
	Concurrency int
}

// NewCollector returns a sequential Collector.
func NewCollector(r Runner, logger *slog.Logger) *Collector {
	return &Collector{Runner: r, Logger: logger, Concurrency: 1}
}

// Unstaged returns every file in dir with a non-blank unstaged diff, in the
// order git lists them. An empty result is not an error.
//
// Failing to list modified files is fatal. Failing to retrieve a single
// file's diff is logged and that file is skipped.
func (c *Collector) Unstaged(ctx context.Context, dir string) ([]Change, error) {
	names, err := c.listUnstaged(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []Change{}, nil
	}

	slots := make([]*Change, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.Concurrency))
	for i, name := range names {
		g.Go(func() error {
			if ch, ok := c.fileDiff(gctx, dir, name); ok {
				slots[i] = &ch
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	changes := make([]Change, 0, len(names))
	for _, ch := range slots {
		if ch != nil {
			changes = append(changes, *ch)
		}
	}
	return changes, nil
}

var listArgs = []string{"diff", "--relative", "--name-only", "-z", "--no-color"}

func (c *Collector) listUnstaged(ctx context.Context, dir string) ([]string, error) {
	out, err := c.Runner.Run(ctx, dir, listArgs...)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, &ListError{Stderr: exitErr.Stderr, Err: err}
		}
		return nil, &ToolError{Args: listArgs, Err: err}
	}
	if !utf8.Valid(out) {
		return nil, &EncodingError{Step: "list"}
	}

	var names []string
	for _, name := range bytes.Split(out, []byte{0}) {
		n := string(name)
		if strings.TrimSpace(n) == "" {
			continue
		}
		names = append(names, n)
	}
	return names, nil
}

func (c *Collector) fileDiff(ctx context.Context, dir, name string) (Change, bool) {
	log := c.logger().With("file", name)

	out, err := c.Runner.Run(ctx, dir,
		"--literal-pathspecs", "diff", "--relative", "--no-color", "--no-ext-diff", "--", name)
	if err != nil {
		log.Warn("skipping file: diff failed", "error", err)
		return Change{}, false
	}
	if !utf8.Valid(out) {
		log.Warn("skipping file", "error", &EncodingError{Step: name})
		return Change{}, false
	}

	diff := string(out)
	if strings.TrimSpace(diff) == "" {
		log.Debug("skipping file: empty diff")
		return Change{}, false
	}
	return Change{Path: name, Diff: diff, Stats: DiffStats(diff)}, true
}

func (c *Collector) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// DiffStats counts added and deleted lines in a unified diff. Unparseable
// input yields zero stats.
func DiffStats(diff string) Stats {
	var s Stats
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err == nil {
		for _, f := range files {
			if f.IsBinary {
				s.Binary = true
			}
			for _, frag := range f.TextFragments {
				s.Added += int(frag.LinesAdded)
				s.Deleted += int(frag.LinesDeleted)
			}
		}
	}
	// gitdiff only knows the "Binary files differ" form written with
	// --binary; plain git diff names both sides.
	if !s.Binary && s.Added == 0 && s.Deleted == 0 && binaryNotice.MatchString(diff) {
		s.Binary = true
	}
	return s
}

var binaryNotice = regexp.MustCompile(`(?m)^Binary files .* differ$`)
