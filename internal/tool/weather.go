package tool

import (
	"context"
	"encoding/json"

	jsonschema "github.com/google/jsonschema-go/jsonschema"
)

// WeatherToolName is the registry name of the demo weather tool.
const WeatherToolName = "GetWeather"

// WeatherReport is the canned answer the demo weather tool always returns.
const WeatherReport = "Mostly sunny, 14C, rain in the afternoon."

// Weather is a demo tool that answers weather questions with a fixed
// report. It requires a location argument but deliberately ignores it: the
// tool exists to exercise the agentic loop, not to fetch real weather.
type Weather struct{}

// NewWeather creates the demo weather tool.
func NewWeather() *Weather {
	return &Weather{}
}

// Name implements Tool.
func (w *Weather) Name() string {
	return WeatherToolName
}

// Description implements Tool.
func (w *Weather) Description() string {
	return "Get the current weather report for a location."
}

// Schema implements Tool. The input requires a single location string.
func (w *Weather) Schema() (*jsonschema.Schema, error) {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"location": {
				Type:        "string",
				Description: "City or place to report the weather for.",
			},
		},
		Required: []string{"location"},
	}, nil
}

// Execute implements Tool. The location has already been validated; its
// value does not influence the canned report.
func (w *Weather) Execute(ctx context.Context, input json.RawMessage) (*Result, error) {
	return &Result{Type: "text", Data: WeatherReport}, nil
}
