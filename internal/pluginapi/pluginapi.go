// Package pluginapi defines extension points that a private/pro module can
// implement and register at runtime. Keep this package small so it stays
// decoupled from the rest of the codebase.
package pluginapi

import "github.com/LiboWorks/agentflow/internal/tool"

// Extension is the interface a pro module implements to extend the open
// binary. Keep methods minimal and focused on behavior to avoid tight
// coupling.
type Extension interface {
	// Tools returns additional tools to make available to workflows.
	Tools() []tool.Tool
}

// registered holds the Extension implementation when a pro module is
// compiled into the final binary and calls Register.
var registered Extension

// Register is called by the pro module, typically from its init(). The open
// repo never imports the pro module; the pro module imports this package.
func Register(e Extension) {
	registered = e
}

// Available reports whether an extension was registered.
func Available() bool {
	return registered != nil
}

// ExtraTools returns the extension's tools, or nil when none is registered.
func ExtraTools() []tool.Tool {
	if registered == nil {
		return nil
	}
	return registered.Tools()
}
