package runtime

// RuntimeContext holds the string variables a running workflow exposes to
// transition conditions and prompt templates.
type RuntimeContext struct {
	Vars map[string]string
}

func NewRuntimeContext() *RuntimeContext {
	return &RuntimeContext{
		Vars: make(map[string]string),
	}
}

func (c *RuntimeContext) Set(name, value string) {
	c.Vars[name] = value
}

func (c *RuntimeContext) Get(name string) string {
	return c.Vars[name]
}

// Snapshot returns a copy of the variables, for logging.
func (c *RuntimeContext) Snapshot() map[string]string {
	out := make(map[string]string, len(c.Vars))
	for k, v := range c.Vars {
		out[k] = v
	}
	return out
}
