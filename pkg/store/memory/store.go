package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/de-tools/patient-reports/pkg/models/store"
	"github.com/de-tools/patient-reports/pkg/store/collate"
	"github.com/de-tools/patient-reports/pkg/store/documents"
	"github.com/de-tools/patient-reports/pkg/store/views"
)

type entry struct {
	key   collate.Key
	docID string
}

// Store keeps documents and view indexes in memory. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	views   views.Registry
	docs    map[string]store.Document
	emitted map[string]map[string][]collate.Key
	indexes map[string][]entry
}

func NewStore(registry views.Registry) *Store {
	if registry == nil {
		registry = views.Default()
	}
	return &Store{
		views:   registry,
		docs:    make(map[string]store.Document),
		emitted: make(map[string]map[string][]collate.Key),
		indexes: make(map[string][]entry),
	}
}

// Add indexes the whole batch before storing any of it, so a rejected
// batch leaves the store unchanged.
func (s *Store) Add(_ context.Context, docs []store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	emitted := make(map[string]map[string][]collate.Key, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document of type %q has no id", doc.Type)
		}
		keys, err := s.views.Index(doc)
		if err != nil {
			return fmt.Errorf("index document %s: %w", doc.ID, err)
		}
		emitted[doc.ID] = keys
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		s.docs[doc.ID] = doc
		s.emitted[doc.ID] = emitted[doc.ID]
	}
	s.reindex()
	return nil
}

func (s *Store) reindex() {
	indexes := make(map[string][]entry, len(s.views))
	for id, emitted := range s.emitted {
		for view, keys := range emitted {
			for _, k := range keys {
				indexes[view] = append(indexes[view], entry{key: k, docID: id})
			}
		}
	}
	for view := range indexes {
		sort.Slice(indexes[view], func(i, j int) bool {
			a, b := indexes[view][i], indexes[view][j]
			if c := collate.Compare(a.key, b.key); c != 0 {
				return c < 0
			}
			return strings.Compare(a.docID, b.docID) < 0
		})
	}
	s.indexes = indexes
}

func (s *Store) Query(ctx context.Context, view string, opts store.QueryOptions) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := s.views[view]; !ok {
		return nil, fmt.Errorf("unknown view %q", view)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexes[view]
	start := 0
	if opts.StartKey != nil {
		start = sort.Search(len(idx), func(i int) bool {
			return collate.Compare(idx[i].key, opts.StartKey) >= 0
		})
	}

	docs := make([]store.Document, 0)
	for _, e := range idx[start:] {
		if opts.EndKey != nil && collate.Compare(e.key, opts.EndKey) > 0 {
			break
		}
		docs = append(docs, s.docs[e.docID])
	}
	return docs, nil
}

func (s *Store) Get(ctx context.Context, id string) (*store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, documents.ErrNotFound)
	}
	return &doc, nil
}

var (
	_ documents.Store  = (*Store)(nil)
	_ documents.Writer = (*Store)(nil)
)
