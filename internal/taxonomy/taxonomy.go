// Package taxonomy parses and indexes the hierarchical FAQ document.
//
// The document is a JSON array of category nodes. Each node carries a local
// integer key, a short description, and either sub-categories or a leaf
// answer. At parse time local keys are joined into dotted paths ("1.2.3")
// and an index from path to node is built, so lookup is a single map access.
//
// A parsed [Tree] is immutable. [Store] owns the currently serving tree and
// swaps it atomically on reload; concurrent readers never observe a
// partially built tree.
package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// NoMatchKey is the reserved category key path meaning "no applicable
// category". It is never a node key; Lookup always treats it as a miss.
const NoMatchKey = "0"

// ErrMalformedTaxonomy indicates the FAQ document does not form a valid
// category tree. Checked with errors.Is by load/reload callers.
var ErrMalformedTaxonomy = errors.New("malformed taxonomy document")

// docNode is the wire format of a single category in the FAQ document.
type docNode struct {
	CategoryKey  string    `json:"category_key"`
	CategoryDesc string    `json:"category_desc"`
	Answer       *string   `json:"answer,omitempty"`
	SubCategory  []docNode `json:"sub_category,omitempty"`
}

// Node is one category in the parsed tree.
type Node struct {
	// Key is the full dotted path from the root, e.g. "1.2.3".
	Key string

	// Description is the short label shown in the classification directory.
	Description string

	// Answer is the leaf answer text. Valid only when HasAnswer is true.
	Answer    string
	HasAnswer bool

	// Children preserves document order. Empty for leaves.
	Children []*Node
}

// Tree is an immutable parsed FAQ document with a path index.
type Tree struct {
	roots []*Node
	index map[string]*Node
}

// Len returns the total number of categories in the tree.
func (t *Tree) Len() int { return len(t.index) }

// Node returns the node at the given dotted path, or nil.
func (t *Tree) Node(keyPath string) *Node { return t.index[keyPath] }

// Parse builds a Tree from a raw FAQ document.
// All structural violations are reported as ErrMalformedTaxonomy wraps:
// invalid JSON, an empty document, non-positive-integer or duplicate local
// keys, an empty description, or a node with neither children nor an answer.
func Parse(data []byte) (*Tree, error) {
	var doc []docNode
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %w", ErrMalformedTaxonomy, err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: document has no categories", ErrMalformedTaxonomy)
	}

	t := &Tree{index: make(map[string]*Node)}
	roots, err := t.buildLevel(doc, "")
	if err != nil {
		return nil, err
	}
	t.roots = roots
	return t, nil
}

// buildLevel converts one document level into nodes, prefixing keys with the
// parent path and registering every node in the index.
func (t *Tree) buildLevel(level []docNode, parentKey string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(level))
	seen := make(map[string]struct{}, len(level))

	for _, d := range level {
		if _, err := parseSegment(d.CategoryKey); err != nil {
			return nil, fmt.Errorf("%w: category_key %q under %q: %w",
				ErrMalformedTaxonomy, d.CategoryKey, orRoot(parentKey), err)
		}
		if _, dup := seen[d.CategoryKey]; dup {
			return nil, fmt.Errorf("%w: duplicate category_key %q under %q",
				ErrMalformedTaxonomy, d.CategoryKey, orRoot(parentKey))
		}
		seen[d.CategoryKey] = struct{}{}

		if d.CategoryDesc == "" {
			return nil, fmt.Errorf("%w: category %q under %q has no description",
				ErrMalformedTaxonomy, d.CategoryKey, orRoot(parentKey))
		}

		key := d.CategoryKey
		if parentKey != "" {
			key = parentKey + "." + d.CategoryKey
		}

		n := &Node{Key: key, Description: d.CategoryDesc}
		if d.Answer != nil {
			n.Answer = *d.Answer
			n.HasAnswer = true
		}

		if len(d.SubCategory) > 0 {
			children, err := t.buildLevel(d.SubCategory, key)
			if err != nil {
				return nil, err
			}
			n.Children = children
		} else if !n.HasAnswer {
			return nil, fmt.Errorf("%w: category %q has neither sub-categories nor an answer",
				ErrMalformedTaxonomy, key)
		}

		t.index[key] = n
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parseSegment validates a single dotted-path segment. Segments are positive
// integers; "0" is reserved for the no-match sentinel.
func parseSegment(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("key segment is not an integer")
	}
	if n <= 0 {
		return 0, errors.New("key segment must be a positive integer")
	}
	return n, nil
}

func orRoot(parentKey string) string {
	if parentKey == "" {
		return "root"
	}
	return parentKey
}
