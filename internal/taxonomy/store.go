package taxonomy

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/faqpilot/faqpilot/internal/log"
)

// Store owns the currently serving taxonomy tree.
//
// The tree is loaded once at startup and replaced wholesale by Reload; it is
// never mutated in place. Readers go through Tree(), which is a single
// atomic pointer load, so no locking is needed on the request path.
type Store struct {
	path   string
	logger log.Logger
	tree   atomic.Pointer[Tree]
}

// NewStore loads the FAQ document at path and returns a serving Store.
// Fails with an ErrMalformedTaxonomy wrap if the document is invalid.
func NewStore(path string, logger log.Logger) (*Store, error) {
	tree, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	s := &Store{path: path, logger: logger}
	s.tree.Store(tree)
	logger.Info("taxonomy loaded", "path", path, "categories", tree.Len())
	return s, nil
}

// NewStoreFromTree wraps an already parsed tree. Reload is unavailable
// (no backing file); used by tests and embedded callers.
func NewStoreFromTree(tree *Tree, logger log.Logger) *Store {
	s := &Store{logger: logger}
	s.tree.Store(tree)
	return s
}

// Tree returns the currently serving tree.
func (s *Store) Tree() *Tree { return s.tree.Load() }

// Lookup resolves a category key path against the current tree.
func (s *Store) Lookup(keyPath string) Match { return s.Tree().Lookup(keyPath) }

// RenderDirectory renders the current tree's classification directory.
func (s *Store) RenderDirectory() string { return s.Tree().RenderDirectory() }

// Reload re-reads the backing document and swaps in the new tree.
//
// All-or-nothing: the new document is parsed completely before publishing,
// and a corrupt document leaves the serving tree untouched. Concurrent
// reads during the swap see either the old tree or the new one, never a mix.
func (s *Store) Reload() error {
	if s.path == "" {
		return fmt.Errorf("taxonomy store has no backing document")
	}

	tree, err := loadFile(s.path)
	if err != nil {
		s.logger.Warn("taxonomy reload rejected, keeping current tree",
			"path", s.path, "error", err)
		return err
	}

	old := s.tree.Swap(tree)
	s.logger.Info("taxonomy reloaded",
		"path", s.path,
		"categories", tree.Len(),
		"previous_categories", old.Len(),
	)
	return nil
}

// loadFile reads and parses a FAQ document. A shared flock guards the read
// so an external process regenerating the document cannot be observed
// mid-write.
func loadFile(path string) (*Tree, error) {
	fl := flock.New(path)
	if err := fl.RLock(); err != nil {
		return nil, fmt.Errorf("locking taxonomy document: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy document: %w", err)
	}
	return Parse(data)
}
