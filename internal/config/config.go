// Package config provides centralized configuration management for agentflow.
// It handles environment variables, default values, and configuration validation.
package config

import (
	"os"
	"strconv"
	"sync"
)

// Config holds all configuration settings for agentflow
type Config struct {
	// OpenAI settings
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Llama settings
	LlamaModelPath string
	LlamaThreads   int
	LlamaContext   int
	LlamaLogFile   string

	// Runtime settings
	DefaultProvider string
	MaxTurns        int
	UseSubprocess   bool
	WorkerTimeout   int // seconds

	// Storage settings
	DocsDir   string
	ModelsDir string

	// Diagnostics
	Verbose   bool
	DebugMode bool
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Default values
const (
	DefaultOpenAIModel   = "gpt-4"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultProviderName  = "openai"
	DefaultLlamaThreads  = 4
	DefaultLlamaContext  = 2048
	DefaultLlamaLogFile  = "llama_output.txt"
	DefaultMaxTurns      = 8
	DefaultWorkerTimeout = 300
	DefaultDocsDir       = "documents"
	DefaultModelsDir     = "models"
)

// Get returns the global configuration, loading from environment if not already loaded
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = loadFromEnv()
	})
	return globalConfig
}

// Reset clears the global configuration, forcing reload on next Get()
// This is primarily useful for testing
func Reset() {
	configOnce = sync.Once{}
	globalConfig = nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv() *Config {
	return &Config{
		// OpenAI settings
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		OpenAIModel:   getEnv("OPENAI_MODEL", DefaultOpenAIModel),

		// Llama settings
		LlamaModelPath: getEnv("LLAMA_MODEL_PATH", ""),
		LlamaThreads:   getEnvInt("LLAMA_THREADS", DefaultLlamaThreads),
		LlamaContext:   getEnvInt("LLAMA_CONTEXT", DefaultLlamaContext),
		LlamaLogFile:   getEnv("AGENTFLOW_LLAMA_LOG", DefaultLlamaLogFile),

		// Runtime settings
		DefaultProvider: getEnv("AGENTFLOW_PROVIDER", DefaultProviderName),
		MaxTurns:        getEnvInt("AGENTFLOW_MAX_TURNS", DefaultMaxTurns),
		UseSubprocess:   getEnvBool("AGENTFLOW_SUBPROCESS", false),
		WorkerTimeout:   getEnvInt("AGENTFLOW_WORKER_TIMEOUT", DefaultWorkerTimeout),

		// Storage settings
		DocsDir:   getEnv("AGENTFLOW_DOCS_DIR", DefaultDocsDir),
		ModelsDir: getEnv("AGENTFLOW_MODELS_DIR", DefaultModelsDir),

		// Diagnostics
		Verbose:   getEnvBool("AGENTFLOW_VERBOSE", false),
		DebugMode: getEnvBool("AGENTFLOW_DEBUG", false),
	}
}

// NewConfig creates a new configuration with custom values
// This is useful for testing or programmatic configuration
func NewConfig() *Config {
	return &Config{
		OpenAIBaseURL:   DefaultOpenAIBaseURL,
		OpenAIModel:     DefaultOpenAIModel,
		DefaultProvider: DefaultProviderName,
		LlamaThreads:    DefaultLlamaThreads,
		LlamaContext:    DefaultLlamaContext,
		LlamaLogFile:    DefaultLlamaLogFile,
		MaxTurns:        DefaultMaxTurns,
		WorkerTimeout:   DefaultWorkerTimeout,
		DocsDir:         DefaultDocsDir,
		ModelsDir:       DefaultModelsDir,
	}
}

// WithOpenAI configures OpenAI settings
func (c *Config) WithOpenAI(apiKey, baseURL, model string) *Config {
	c.OpenAIAPIKey = apiKey
	if baseURL != "" {
		c.OpenAIBaseURL = baseURL
	}
	if model != "" {
		c.OpenAIModel = model
	}
	return c
}

// WithLlama configures Llama settings
func (c *Config) WithLlama(modelPath string, threads int) *Config {
	c.LlamaModelPath = modelPath
	if threads > 0 {
		c.LlamaThreads = threads
	}
	return c
}

// WithProvider sets the default LLM provider name
func (c *Config) WithProvider(name string) *Config {
	if name != "" {
		c.DefaultProvider = name
	}
	return c
}

// WithMaxTurns sets the agentic loop turn limit
func (c *Config) WithMaxTurns(n int) *Config {
	if n > 0 {
		c.MaxTurns = n
	}
	return c
}

// WithSubprocess enables subprocess mode for local inference
func (c *Config) WithSubprocess(enabled bool) *Config {
	c.UseSubprocess = enabled
	return c
}

// WithDocsDir configures where message documents are persisted
func (c *Config) WithDocsDir(dir string) *Config {
	if dir != "" {
		c.DocsDir = dir
	}
	return c
}

// WithDebug enables debug and verbose modes
func (c *Config) WithDebug(debug, verbose bool) *Config {
	c.DebugMode = debug
	c.Verbose = verbose
	return c
}

// Validate checks if the configuration is valid for the intended use
func (c *Config) Validate() error {
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		// Also accept "1" as true
		if value == "1" {
			return true
		}
	}
	return defaultValue
}
