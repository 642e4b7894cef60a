package worker

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// Client talks to one worker over a pair of pipes. Requests carry an id so
// responses can be matched even though the worker answers in its own order.
type Client struct {
	stdin  io.WriteCloser
	stdout io.ReadCloser
	wait   func() error

	encMu sync.Mutex
	enc   *json.Encoder

	pendingMu sync.Mutex
	pending   map[string]chan Response
	closed    bool

	idCounter uint64
}

// NewClient spawns this binary as a worker process and connects to it.
func NewClient() (*Client, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	exe, _ = filepath.Abs(exe)

	cmd := exec.Command(exe)
	// Inherit the environment, but strip the subprocess flag so the child
	// does not spawn workers of its own.
	parentEnv := os.Environ()
	childEnv := make([]string, 0, len(parentEnv)+1)
	for _, e := range parentEnv {
		if strings.HasPrefix(e, "AGENTFLOW_SUBPROCESS=") {
			continue
		}
		childEnv = append(childEnv, e)
	}
	childEnv = append(childEnv, EnvWorker+"=1")
	cmd.Env = childEnv

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}

	return newPipeClient(stdin, stdout, cmd.Wait), nil
}

// newPipeClient wires a client over arbitrary pipes. Split out so tests can
// connect a client directly to Serve without spawning a process.
func newPipeClient(stdin io.WriteCloser, stdout io.ReadCloser, wait func() error) *Client {
	c := &Client{
		stdin:   stdin,
		stdout:  stdout,
		wait:    wait,
		enc:     json.NewEncoder(stdin),
		pending: make(map[string]chan Response),
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	dec := json.NewDecoder(bufio.NewReader(c.stdout))
	for {
		var resp Response
		if err := dec.Decode(&resp); err != nil {
			c.failPending(err)
			return
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.pendingMu.Unlock()

		if ok {
			ch <- resp
			close(ch)
		}
	}
}

// failPending unblocks every in-flight request when the worker goes away.
func (c *Client) failPending(err error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	c.closed = true

	msg := "worker closed"
	if err != nil && err != io.EOF {
		msg = fmt.Sprintf("worker failed: %v", err)
	}
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- Response{ID: id, Err: msg}
		close(ch)
	}
}

// Generate sends one completion request and waits for its response. It
// satisfies the provider completer contract.
func (c *Client) Generate(prompt, modelPath string, maxTokens int) (string, error) {
	id := fmt.Sprintf("%d", atomic.AddUint64(&c.idCounter, 1))

	ch := make(chan Response, 1)
	c.pendingMu.Lock()
	if c.closed {
		c.pendingMu.Unlock()
		return "", errors.New("worker is closed")
	}
	c.pending[id] = ch
	c.pendingMu.Unlock()

	c.encMu.Lock()
	err := c.enc.Encode(Request{ID: id, ModelPath: modelPath, Prompt: prompt, MaxTokens: maxTokens})
	c.encMu.Unlock()
	if err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	resp := <-ch
	if resp.Err != "" {
		return resp.Val, errors.New(resp.Err)
	}
	return resp.Val, nil
}

// Close shuts the worker down by closing its stdin and waits for it to exit.
func (c *Client) Close() error {
	c.stdin.Close()
	if c.wait != nil {
		return c.wait()
	}
	return nil
}
