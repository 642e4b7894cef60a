package document

import "sync"

// MemoryStore keeps documents in memory. Used in tests; callers that want
// no persistence at all pass a nil Store instead.
type MemoryStore struct {
	mu   sync.Mutex
	docs []*Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create implements Store.
func (s *MemoryStore) Create(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return nil
}

// Documents returns a copy of everything stored so far.
func (s *MemoryStore) Documents() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
