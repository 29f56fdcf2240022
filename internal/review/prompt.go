package review

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert code reviewer specializing in identifying breaking changes and potential issues in code modifications."

const instructions = `You are a senior code reviewer. Analyze the following git diffs to identify potential breaking changes that could affect the behavior of the software. For each change, determine:
1. Whether it's a breaking change (yes/no)
2. The severity (low/medium/high)
3. What behavior might be affected
4. Suggestions to prevent or mitigate the breaking change

Please provide a structured analysis in the following format:
## Summary
[Overall assessment]

## Detailed Analysis
### File: [filename]
- **Breaking Change**: [yes/no]
- **Severity**: [low/medium/high]
- **Impact**: [description of what might break]
- **Suggestions**: [how to prevent/mitigate]

Here are the diffs to analyze:

`

// SystemPrompt returns the reviewer persona sent as the system message.
func SystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt renders changes, in order, below the fixed instructions.
// Each diff is embedded verbatim under a "### File: <path>" heading.
func BuildUserPrompt(changes []Change) string {
	var b strings.Builder
	b.WriteString(instructions)
	for _, c := range changes {
		fmt.Fprintf(&b, "### File: %s\n```diff\n%s\n```\n\n", c.Path, c.Diff)
	}
	return b.String()
}
