package output

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one top-level part of an analysis.
type Section struct {
	Title string `json:"title,omitempty"`
	// File is the reviewed path the title refers to, if any.
	File string `json:"file,omitempty"`
	Body string `json:"body"`
}

// Sections splits a markdown analysis at its highest-ranking top-level
// headings. Text before the first heading becomes an untitled section.
// Headings nested in lists, quotes or code blocks do not split. A section
// whose title names one of paths records that path in File.
func Sections(analysis string, paths []string) []Section {
	source := []byte(analysis)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var headings []*ast.Heading
	minLevel := 7
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		headings = append(headings, h)
		minLevel = min(minLevel, h.Level)
	}

	type mark struct {
		title            string
		start, bodyStart int
	}
	var marks []mark
	for _, h := range headings {
		if h.Level != minLevel {
			continue
		}
		lines := h.Lines()
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)

		var title bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			title.Write(seg.Value(source))
		}

		start := lineStart(source, first.Start)
		bodyStart := nextLine(source, last.Start)
		if !isATX(source[start:]) {
			// setext underline
			bodyStart = nextLine(source, bodyStart)
		}
		marks = append(marks, mark{
			title:     strings.TrimSpace(title.String()),
			start:     start,
			bodyStart: bodyStart,
		})
	}

	var sections []Section
	if len(marks) == 0 {
		if body := strings.TrimSpace(analysis); body != "" {
			sections = append(sections, Section{Body: body})
		}
		return sections
	}
	if pre := strings.TrimSpace(string(source[:marks[0].start])); pre != "" {
		sections = append(sections, Section{Body: pre})
	}
	for i, m := range marks {
		end := len(source)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		sections = append(sections, Section{
			Title: m.title,
			File:  matchPath(m.title, paths),
			Body:  strings.TrimSpace(string(source[m.bodyStart:end])),
		})
	}
	return sections
}

func lineStart(source []byte, pos int) int {
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

func nextLine(source []byte, pos int) int {
	if pos >= len(source) {
		return len(source)
	}
	i := bytes.IndexByte(source[pos:], '\n')
	if i < 0 {
		return len(source)
	}
	return pos + i + 1
}

func isATX(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " "), []byte("#"))
}

// matchPath returns the longest path mentioned in title.
func matchPath(title string, paths []string) string {
	best := ""
	for _, p := range paths {
		if p != "" && strings.Contains(title, p) && len(p) > len(best) {
			best = p
		}
	}
	return best
}
