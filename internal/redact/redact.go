package redact

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Placeholder replaces every redacted secret.
const Placeholder = "[REDACTED]"

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic, OpenAI and Moonshot keys share the sk- prefix.
	regexp.MustCompile(`sk-(ant-)?[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in text and reports how many matches were replaced.
func Secrets(text string) (string, int) {
	count := 0
	for _, pat := range secretPatterns {
		text = pat.ReplaceAllStringFunc(text, func(string) string {
			count++
			return Placeholder
		})
	}
	return text, count
}

// Policy describes which diffs are scrubbed.
type Policy struct {
	// Secrets enables regex-based secret replacement.
	Secrets bool
	// Paths are glob patterns; a matching file's whole diff is replaced.
	Paths []string
}

// Enabled reports whether the policy can change anything.
func (p Policy) Enabled() bool {
	return p.Secrets || len(p.Paths) > 0
}

// Apply returns diff scrubbed according to the policy, and the number of
// replacements made. A path-policy match counts as one replacement.
func (p Policy) Apply(path, diff string) (string, int) {
	if MatchesPath(path, p.Paths) {
		return fmt.Sprintf("%s (diff for %s redacted by path policy)\n", Placeholder, path), 1
	}
	if !p.Secrets {
		return diff, 0
	}
	return Secrets(diff)
}

// MatchesPath reports whether path matches any glob. A leading "**/" also
// matches against the base name, so "**/.env" matches "config/.env".
func MatchesPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean == pattern {
			continue
		}
		if matched, err := filepath.Match(clean, filepath.Base(path)); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(clean, path); err == nil && matched {
			return true
		}
	}
	return false
}
