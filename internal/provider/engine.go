package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"github.com/LiboWorks/agentflow/internal/config"
)

// Engine runs raw completions on local GGUF models via llama.cpp. Model
// handles are cached per path and predictions are serialized: ggml is not
// safe for concurrent calls on one process.
//
// Engine is also the handler the subprocess worker serves, so in-process
// and worker-isolated inference share one implementation.
type Engine struct {
	mu     sync.Mutex
	models map[string]*llama.LLama

	threads   int
	nCtx      int
	logFile   string
	maxTokens int
}

// EngineConfig holds configuration for the local inference engine.
type EngineConfig struct {
	Threads   int
	Context   int
	MaxTokens int

	// LogFile receives native llama.cpp output during predictions so it
	// does not pollute the terminal. Empty disables capture.
	LogFile string
}

// NewEngine creates a local inference engine. Zero config fields fall back
// to the global configuration.
func NewEngine(cfg EngineConfig) *Engine {
	globalCfg := config.Get()

	e := &Engine{
		models:    make(map[string]*llama.LLama),
		threads:   globalCfg.LlamaThreads,
		nCtx:      globalCfg.LlamaContext,
		logFile:   cfg.LogFile,
		maxTokens: 256,
	}
	if cfg.Threads > 0 {
		e.threads = cfg.Threads
	}
	if cfg.Context > 0 {
		e.nCtx = cfg.Context
	}
	if cfg.MaxTokens > 0 {
		e.maxTokens = cfg.MaxTokens
	}
	return e
}

// load returns a cached model handle or loads the GGUF file.
func (e *Engine) load(modelPath string) (*llama.LLama, error) {
	abs, err := filepath.Abs(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model path: %w", err)
	}

	if m, ok := e.models[abs]; ok {
		return m, nil
	}

	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", abs)
	}

	m, err := llama.New(abs, llama.SetContext(e.nCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", abs, err)
	}

	e.models[abs] = m
	return m, nil
}

// Generate implements worker.Handler: a raw completion for the prompt using
// the model at modelPath.
func (e *Engine) Generate(prompt, modelPath string, maxTokens int) (string, error) {
	if modelPath == "" {
		return "", fmt.Errorf("model path is required for local inference")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m, err := e.load(modelPath)
	if err != nil {
		return "", err
	}

	mt := e.maxTokens
	if maxTokens > 0 {
		mt = maxTokens
	}

	// Keep native llama.cpp chatter out of the terminal.
	restore, err := captureNative(e.logFile)
	if err == nil {
		defer restore()
	}

	out, err := m.Predict(prompt,
		llama.SetTokens(mt),
		llama.SetThreads(e.threads),
		llama.SetTopK(40),
		llama.SetTopP(0.9),
		llama.SetTemperature(0.8),
	)
	if err != nil {
		return "", fmt.Errorf("prediction failed: %w", err)
	}
	return out, nil
}

// Close frees all cached model handles.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, m := range e.models {
		m.Free()
	}
	e.models = make(map[string]*llama.LLama)
	return nil
}
