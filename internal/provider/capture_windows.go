//go:build windows

package provider

// captureNative is a no-op on Windows: syscall.Dup/Dup2 are not available,
// so native llama.cpp output cannot be redirected at the descriptor level.
func captureNative(logPath string) (func(), error) {
	return func() {}, nil
}
