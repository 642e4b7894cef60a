// Package downloader fetches GGUF model files, typically from Hugging Face.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/LiboWorks/agentflow/internal/config"
)

// Download fetches url into dir/targetFile and returns the local path. An
// existing file is kept as-is. A HUGGINGFACE_TOKEN in the environment is
// sent as a bearer token, which gated repositories require.
func Download(ctx context.Context, url, dir, targetFile string) (string, error) {
	if dir == "" {
		dir = config.Get().ModelsDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create models directory: %w", err)
	}

	outPath := filepath.Join(dir, targetFile)
	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if tk := os.Getenv("HUGGINGFACE_TOKEN"); tk != "" {
		req.Header.Set("Authorization", "Bearer "+tk)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s", resp.Status)
	}

	// Download to a temp file first so an interrupted transfer never
	// leaves a truncated model behind.
	tmp, err := os.CreateTemp(dir, targetFile+".partial-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
