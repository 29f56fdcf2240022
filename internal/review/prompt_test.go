package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleChanges() []Change {
	return []Change{
		{Path: "a.txt", Diff: "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-x\n+y\n"},
		{Path: "pkg/api.go", Diff: "diff --git a/pkg/api.go b/pkg/api.go\n-func Get(id int)\n+func Get(id string)\n"},
	}
}

func TestBuildUserPrompt_Preamble(t *testing.T) {
	prompt := BuildUserPrompt(sampleChanges())

	for _, want := range []string{
		"Whether it's a breaking change (yes/no)",
		"The severity (low/medium/high)",
		"What behavior might be affected",
		"Suggestions to prevent or mitigate the breaking change",
		"## Summary",
		"## Detailed Analysis",
		"### File: [filename]",
		"Here are the diffs to analyze:",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildUserPrompt_FileBlocks(t *testing.T) {
	changes := sampleChanges()
	prompt := BuildUserPrompt(changes)

	for _, c := range changes {
		block := "### File: " + c.Path + "\n```diff\n" + c.Diff + "\n```\n\n"
		assert.Contains(t, prompt, block, "diff for %s should be embedded verbatim", c.Path)
	}
	first := strings.Index(prompt, "### File: a.txt")
	second := strings.Index(prompt, "### File: pkg/api.go")
	assert.Less(t, first, second, "blocks should follow input order")
	assert.Greater(t, first, strings.Index(prompt, "Here are the diffs to analyze:"))
}

func TestBuildUserPrompt_Deterministic(t *testing.T) {
	a := BuildUserPrompt(sampleChanges())
	b := BuildUserPrompt(sampleChanges())
	assert.Equal(t, a, b)
}

func TestBuildUserPrompt_NoEscaping(t *testing.T) {
	diff := "+s := \"<tag> & `tick` \\n\"\n"
	prompt := BuildUserPrompt([]Change{{Path: "x.go", Diff: diff}})
	assert.Contains(t, prompt, diff)
}

func TestBuildUserPrompt_Empty(t *testing.T) {
	prompt := BuildUserPrompt(nil)
	assert.True(t, strings.HasSuffix(prompt, "Here are the diffs to analyze:\n\n"))
	assert.NotContains(t, prompt, "```diff")
}

func TestSystemPrompt(t *testing.T) {
	assert.Contains(t, SystemPrompt(), "breaking changes")
	assert.Equal(t, SystemPrompt(), SystemPrompt())
}
