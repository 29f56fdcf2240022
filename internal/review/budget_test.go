package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sized(path string, n int) Change {
	return Change{Path: path, Diff: strings.Repeat("x", n)}
}

func TestApplyBudget_Disabled(t *testing.T) {
	in := []Change{sized("a", 100), sized("b", 100)}
	kept, dropped := ApplyBudget(in, 0)
	assert.Equal(t, in, kept)
	assert.Empty(t, dropped)
}

func TestApplyBudget_DropsOverflowInOrder(t *testing.T) {
	in := []Change{sized("a", 40), sized("b", 50), sized("c", 10), sized("d", 60)}
	kept, dropped := ApplyBudget(in, 60)

	var paths []string
	for _, c := range kept {
		paths = append(paths, c.Path)
	}
	assert.Equal(t, []string{"a", "c"}, paths)
	assert.Equal(t, []string{"b", "d"}, dropped)
}

func TestApplyBudget_AlwaysKeepsFirst(t *testing.T) {
	in := []Change{sized("huge", 1000), sized("small", 1)}
	kept, dropped := ApplyBudget(in, 10)
	assert.Len(t, kept, 1)
	assert.Equal(t, "huge", kept[0].Path)
	assert.Equal(t, []string{"small"}, dropped)
}

func TestApplyBudget_Empty(t *testing.T) {
	kept, dropped := ApplyBudget(nil, 10)
	assert.Empty(t, kept)
	assert.Empty(t, dropped)
}
