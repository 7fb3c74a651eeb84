// Package source reads and writes filter scripts. Local paths go through an
// afero filesystem, http(s) URLs are downloaded with retries.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/bnema/lootfilter/internal/models"
)

// ErrReadOnly is returned when writing to a remote script
var ErrReadOnly = errors.New("remote scripts are read-only")

// Source reads and writes filter scripts
type Source struct {
	fs      afero.Fs
	client  *http.Client
	retries int
}

// New creates a source from config
func New(fs afero.Fs, cfg models.FetchConfig) *Source {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retries := cfg.Retries
	if retries == 0 {
		retries = 3
	}

	return &Source{
		fs: fs,
		client: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
	}
}

// IsRemote reports whether name is an http(s) URL
func IsRemote(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// Read returns the script text stored under name
func (s *Source) Read(ctx context.Context, name string) (string, error) {
	if IsRemote(name) {
		data, err := s.fetch(ctx, name)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// Write stores rendered script text under name
func (s *Source) Write(ctx context.Context, name, text string) error {
	if IsRemote(name) {
		return fmt.Errorf("%s: %w", name, ErrReadOnly)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(s.fs, name, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// fetch downloads content from a URL with retries
func (s *Source) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for i := 0; i < s.retries; i++ {
		if i > 0 {
			// Linear backoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i) * time.Second):
			}
		}

		data, err := s.doFetch(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed after %d retries: %w", s.retries, lastErr)
}

func (s *Source) doFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "lootfilter/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
