package worker

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// completer is the slice of the client a pool needs; narrowed for tests.
type completer interface {
	Generate(prompt, modelPath string, maxTokens int) (string, error)
	Close() error
}

// Pool fans completion requests out over a fixed set of workers,
// round-robin. Each worker serializes its own requests, so the pool size is
// the effective concurrency of local inference.
type Pool struct {
	workers []completer
	next    uint64
}

// NewPool spawns size worker processes. Size is clamped to at least one.
func NewPool(size int) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p := &Pool{workers: make([]completer, 0, size)}
	for i := 0; i < size; i++ {
		c, err := NewClient()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to spawn worker %d: %w", i, err)
		}
		p.workers = append(p.workers, c)
	}
	return p, nil
}

// Generate picks the next worker round-robin and runs the request on it.
func (p *Pool) Generate(prompt, modelPath string, maxTokens int) (string, error) {
	if len(p.workers) == 0 {
		return "", errors.New("worker pool is closed")
	}
	n := atomic.AddUint64(&p.next, 1)
	w := p.workers[int((n-1)%uint64(len(p.workers)))]
	return w.Generate(prompt, modelPath, maxTokens)
}

// Close shuts down every worker, returning the first error seen.
func (p *Pool) Close() error {
	var firstErr error
	for _, w := range p.workers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.workers = nil
	return firstErr
}
