//go:build unix

package provider

import (
	"os"
	"syscall"
)

// captureNative redirects the native stdout/stderr file descriptors to the
// given log file for the duration of a prediction. llama.cpp writes its
// progress output straight to fd 1/2, below Go's os.Stdout, so Go-level
// redirection cannot catch it. The returned func restores the original
// descriptors.
//
// An empty path disables capture and returns a no-op restore.
func captureNative(logPath string) (func(), error) {
	if logPath == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	savedOut, err := syscall.Dup(1)
	if err != nil {
		f.Close()
		return nil, err
	}
	savedErr, err := syscall.Dup(2)
	if err != nil {
		syscall.Close(savedOut)
		f.Close()
		return nil, err
	}

	syscall.Dup2(int(f.Fd()), 1)
	syscall.Dup2(int(f.Fd()), 2)

	return func() {
		syscall.Dup2(savedOut, 1)
		syscall.Dup2(savedErr, 2)
		syscall.Close(savedOut)
		syscall.Close(savedErr)
		f.Close()
	}, nil
}
