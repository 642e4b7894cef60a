package provider

import (
	"fmt"

	"github.com/LiboWorks/agentflow/internal/config"
	"github.com/LiboWorks/agentflow/internal/worker"
)

// NewRegistryFromConfig registers every provider the configuration enables:
// an OpenAI provider when an API key is set, a local llama provider when a
// model path is set. Workers sizes the subprocess pool and is only used in
// subprocess mode.
func NewRegistryFromConfig(cfg *config.Config, workers int) (*Registry, error) {
	registry := NewRegistry()

	if cfg.OpenAIAPIKey != "" {
		p, err := NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			return nil, err
		}
		registry.Register("openai", p)
	}

	if cfg.LlamaModelPath != "" {
		var completer Completer
		var closer func() error
		if cfg.UseSubprocess {
			pool, err := worker.NewPool(workers)
			if err != nil {
				return nil, err
			}
			completer = pool
			closer = pool.Close
		} else {
			engine := NewEngine(EngineConfig{
				Threads: cfg.LlamaThreads,
				Context: cfg.LlamaContext,
				LogFile: cfg.LlamaLogFile,
			})
			completer = engine
			closer = engine.Close
		}
		p, err := NewLlamaProvider(LlamaProviderConfig{
			Completer: completer,
			ModelPath: cfg.LlamaModelPath,
			Closer:    closer,
		})
		if err != nil {
			return nil, err
		}
		registry.Register("llama", p)
	}

	if len(registry.List()) == 0 {
		return nil, fmt.Errorf("no provider configured: set OPENAI_API_KEY or LLAMA_MODEL_PATH")
	}
	// When the configured default is not available, the first registered
	// provider stays default.
	if _, ok := registry.Get(cfg.DefaultProvider); ok {
		registry.SetDefault(cfg.DefaultProvider)
	}
	return registry, nil
}
