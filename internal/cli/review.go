package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/breakcheck/internal/config"
	"github.com/dshills/breakcheck/internal/gitctx"
	"github.com/dshills/breakcheck/internal/output"
	"github.com/dshills/breakcheck/internal/providers"
	"github.com/dshills/breakcheck/internal/review"
)

// reviewFlags holds the review command's flag values.
type reviewFlags struct {
	model        string
	baseURL      string
	temperature  float64
	timeout      string
	format       string
	out          string
	maxDiffBytes int
	concurrency  int
	redact       bool
}

func newReviewCommand(a *app) *cobra.Command {
	f := &reviewFlags{}
	cmd := &cobra.Command{
		Use:   "review <dir>",
		Short: "Review the unstaged changes of a git working tree",
		Long: "Review collects the unstaged changes of the working tree containing <dir>, " +
			"sends them for breaking-change analysis and prints the result.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReview(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.model, "model", "", "Model name")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Chat-completions endpoint URL")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0, "Sampling temperature")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "Request timeout (e.g. 90s, 2m)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format (text, markdown, json)")
	cmd.Flags().StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&f.maxDiffBytes, "max-diff-bytes", 0, "Maximum combined diff size in bytes (0 = unlimited)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Parallel per-file diff retrieval")
	cmd.Flags().BoolVar(&f.redact, "redact", false, "Redact secrets from diffs before sending")
	return cmd
}

// buildOverrides maps the flags the user actually set onto config keys.
func buildOverrides(cmd *cobra.Command, f *reviewFlags) map[string]string {
	m := make(map[string]string)
	changed := cmd.Flags().Changed
	if changed("model") {
		m["model"] = f.model
	}
	if changed("base-url") {
		m["baseURL"] = f.baseURL
	}
	if changed("temperature") {
		m["temperature"] = strconv.FormatFloat(f.temperature, 'f', -1, 64)
	}
	if changed("timeout") {
		m["timeout"] = f.timeout
	}
	if changed("format") {
		m["format"] = f.format
	}
	if changed("max-diff-bytes") {
		m["maxDiffBytes"] = strconv.Itoa(f.maxDiffBytes)
	}
	if changed("concurrency") {
		m["concurrency"] = strconv.Itoa(f.concurrency)
	}
	if changed("redact") {
		m["redactSecrets"] = strconv.FormatBool(f.redact)
	}
	return m
}

func (a *app) runReview(cmd *cobra.Command, dir string, f *reviewFlags) error {
	logger := LoggerFromContext(cmd.Context())

	info, err := os.Stat(dir)
	if err != nil {
		return withExit(ExitUsageError, fmt.Errorf("the directory '%s' does not exist", dir))
	}
	if !info.IsDir() {
		return withExit(ExitUsageError, fmt.Errorf("'%s' is not a directory", dir))
	}

	cfg, err := config.Load(buildOverrides(cmd, f))
	if err != nil {
		return withExit(ExitUsageError, err)
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return withExit(ExitUsageError, err)
	}
	apiKey, err := creds.APIKey()
	if err != nil {
		return withExit(ExitUsageError, err)
	}

	client := providers.NewChatCompletions(apiKey, cfg.ProviderOptions())
	pipeline := review.NewPipeline(gitctx.ExecRunner{}, client, logger)
	pipeline.Options = cfg.ReviewOptions()
	pipeline.Options.Model = client.Model()

	logger.Info("starting code review", "dir", dir, "model", client.Model())
	result, err := pipeline.Run(cmd.Context(), dir)
	if err != nil {
		if providers.IsAuthError(err) {
			return withExit(ExitAuthError, err)
		}
		return withExit(ExitRuntimeError, err)
	}

	if err := writeResult(a, result, cfg.Format, f.out); err != nil {
		return withExit(ExitRuntimeError, fmt.Errorf("writing output: %w", err))
	}
	if !result.Empty() {
		logger.Info("code review completed", "files", len(result.Changes), "ms", result.Timing.TotalMs)
	}
	return nil
}

func writeResult(a *app, result *review.Result, format, outPath string) error {
	if outPath != "" || a.stdout == os.Stdout {
		return output.WriteReport(result, format, outPath, Version)
	}
	w, err := output.GetWriter(format, Version)
	if err != nil {
		return err
	}
	return w.Write(a.stdout, result)
}
