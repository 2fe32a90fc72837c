package taxonomy

import (
	"iter"
	"strings"
)

// DirEntry is one line of the classification directory: a category's depth
// in the tree, its full dotted key, and its description. Answers are never
// part of a DirEntry.
type DirEntry struct {
	Depth       int
	Key         string
	Description string
}

// Directory returns the categories in document order as a lazy, restartable
// sequence. Each category yields exactly one entry.
func (t *Tree) Directory() iter.Seq[DirEntry] {
	return func(yield func(DirEntry) bool) {
		var walk func(nodes []*Node, depth int) bool
		walk = func(nodes []*Node, depth int) bool {
			for _, n := range nodes {
				if !yield(DirEntry{Depth: depth, Key: n.Key, Description: n.Description}) {
					return false
				}
				if !walk(n.Children, depth+1) {
					return false
				}
			}
			return true
		}
		walk(t.roots, 0)
	}
}

// RenderDirectory produces the textual outline placed verbatim into the
// classification prompt: one markdown-style line per category, indented two
// spaces per level. Only keys and descriptions appear; the model must commit
// to a category before any answer is revealed.
func (t *Tree) RenderDirectory() string {
	var b strings.Builder
	for e := range t.Directory() {
		for range e.Depth {
			b.WriteString("  ")
		}
		b.WriteString("- ")
		b.WriteString(e.Key)
		b.WriteString(": ")
		b.WriteString(e.Description)
		b.WriteByte('\n')
	}
	return b.String()
}
