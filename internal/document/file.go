package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore appends documents as JSON lines, one file per workflow, under a
// base directory.
type FileStore struct {
	mu    sync.Mutex
	dir   string
	files map[string]*os.File
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &FileStore{
		dir:   dir,
		files: make(map[string]*os.File),
	}, nil
}

// Create implements Store.
func (s *FileStore) Create(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.file(doc.Workflow)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// file returns the open append handle for a workflow, opening it on first
// use. Callers must hold the mutex.
func (s *FileStore) file(workflow string) (*os.File, error) {
	if f, ok := s.files[workflow]; ok {
		return f, nil
	}
	path := filepath.Join(s.dir, workflow+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open document file: %w", err)
	}
	s.files[workflow] = f
	return f, nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.files, name)
	}
	return firstErr
}
