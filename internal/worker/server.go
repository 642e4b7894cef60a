package worker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Handler produces a completion for one request. Satisfied by the provider
// engine.
type Handler interface {
	Generate(prompt, modelPath string, maxTokens int) (string, error)
}

// Serve reads requests from in and writes responses to out until in is
// closed. Requests are handled one at a time, in arrival order; native
// inference is not reentrant.
func Serve(handler Handler, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			enc.Encode(Response{ID: req.ID, Err: fmt.Sprintf("invalid request: %v", err)})
			w.Flush()
			continue
		}

		val, err := handler.Generate(req.Prompt, req.ModelPath, req.MaxTokens)

		resp := Response{ID: req.ID, Val: val}
		if err != nil {
			resp.Err = err.Error()
		}
		enc.Encode(resp)
		w.Flush()
	}
	return scanner.Err()
}

// Run serves requests on stdin/stdout. Called from main when
// IsWorkerProcess reports true; it never returns control to the caller's
// command handling.
func Run(handler Handler) {
	fmt.Fprintf(os.Stderr, "agentflow worker: starting (pid=%d)\n", os.Getpid())
	if err := Serve(handler, os.Stdin, os.Stdout); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "agentflow worker: input error: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "agentflow worker: exiting (pid=%d)\n", os.Getpid())
}
