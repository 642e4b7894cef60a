// Package worker runs local inference in child processes. The parent speaks
// newline-delimited JSON to each worker over stdin/stdout, which keeps a
// crashing native library from taking the whole process down.
package worker

import "os"

// EnvWorker marks a child process as a worker. The main binary checks it at
// startup and serves requests instead of running a command.
const EnvWorker = "AGENTFLOW_WORKER"

// Request is sent from parent to worker, one JSON object per line.
type Request struct {
	ID        string `json:"id"`
	ModelPath string `json:"model_path"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// Response is sent from worker to parent, one JSON object per line.
type Response struct {
	ID  string `json:"id"`
	Val string `json:"val"`
	Err string `json:"err"`
}

// IsWorkerProcess reports whether this process was spawned as a worker.
func IsWorkerProcess() bool {
	return os.Getenv(EnvWorker) == "1"
}
