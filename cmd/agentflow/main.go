package main

import (
	"github.com/joho/godotenv"

	"github.com/LiboWorks/agentflow/cmd"
	"github.com/LiboWorks/agentflow/internal/provider"
	"github.com/LiboWorks/agentflow/internal/worker"
)

func main() {
	// Optional .env for API keys and model paths; absence is fine.
	_ = godotenv.Load()

	// When spawned as a worker, serve completions and exit instead of
	// handling commands.
	if worker.IsWorkerProcess() {
		engine := provider.NewEngine(provider.EngineConfig{})
		defer engine.Close()
		worker.Run(engine)
		return
	}

	cmd.Execute()
}
