package taxonomy

import "strings"

// BreadcrumbSeparator joins category descriptions in a Match breadcrumb.
const BreadcrumbSeparator = " >>> "

// noSubCategoryMarker terminates the breadcrumb of a trailing-".0" path,
// where the parent category matched but no sub-category applied.
const noSubCategoryMarker = "<none>"

// Match is the outcome of resolving a category key path.
type Match struct {
	// Answer is the leaf answer text. Valid only when OK is true.
	Answer string

	// Breadcrumb is the description trail of the resolved path, joined with
	// BreadcrumbSeparator. It may be non-empty even when OK is false: the
	// model named a real category that carries no final answer.
	Breadcrumb string

	// OK reports whether the path resolved to a concrete answer.
	OK bool
}

// Lookup resolves a category key path produced by the classification model.
//
// Model output is untrusted, so Lookup never fails: the sentinel "0", an
// empty or syntactically invalid path, an unknown path, and a path naming a
// category without an answer all return a zero-valued Match (or one with
// only the breadcrumb set). A trailing ".0" segment means the parent
// category matched but none of its sub-categories did; the parent trail is
// reported without an answer.
func (t *Tree) Lookup(keyPath string) Match {
	if keyPath == "" || keyPath == NoMatchKey {
		return Match{}
	}

	segments := strings.Split(keyPath, ".")

	// A "0" segment is only meaningful in the final position.
	for _, seg := range segments[:len(segments)-1] {
		if seg == "0" {
			return Match{}
		}
		if _, err := parseSegment(seg); err != nil {
			return Match{}
		}
	}

	last := segments[len(segments)-1]
	if last == "0" {
		parent := strings.Join(segments[:len(segments)-1], ".")
		node := t.index[parent]
		if node == nil {
			return Match{}
		}
		trail := append(t.trail(parent), noSubCategoryMarker)
		return Match{Breadcrumb: strings.Join(trail, BreadcrumbSeparator)}
	}
	if _, err := parseSegment(last); err != nil {
		return Match{}
	}

	node := t.index[keyPath]
	if node == nil {
		return Match{}
	}

	breadcrumb := strings.Join(t.trail(keyPath), BreadcrumbSeparator)
	if !node.HasAnswer {
		// The model named an intermediate category; treated as no match.
		return Match{Breadcrumb: breadcrumb}
	}
	return Match{Answer: node.Answer, Breadcrumb: breadcrumb, OK: true}
}

// trail returns the descriptions of keyPath and all its ancestors, root
// first. Every prefix of an indexed path is itself indexed by construction.
func (t *Tree) trail(keyPath string) []string {
	segments := strings.Split(keyPath, ".")
	descs := make([]string, 0, len(segments))
	for i := range segments {
		prefix := strings.Join(segments[:i+1], ".")
		if n := t.index[prefix]; n != nil {
			descs = append(descs, n.Description)
		}
	}
	return descs
}
