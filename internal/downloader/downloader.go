// Package downloader implements the plain HTTP fetch used by hub to pull a
// vocabulary blob into the local cache.
package downloader

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

// ProgressCallback is invoked periodically with the number of bytes written
// so far and, when known, the total content length (0 if unknown).
type ProgressCallback func(written, total int64)

// Manager fetches files over HTTP, bounding how many transfers run at once
// and optionally attaching a bearer token to every request.
type Manager struct {
	maxParallel int
	authToken   string
	sem         chan struct{}
}

// New creates a Manager with no parallelism limit and no auth token.
func New() *Manager {
	return &Manager{maxParallel: 1}
}

// MaxParallel bounds the number of concurrent Download calls that proceed
// past the network request at once; excess calls block until a slot frees.
func (m *Manager) MaxParallel(n int) *Manager {
	if n < 1 {
		n = 1
	}
	m.maxParallel = n
	m.sem = make(chan struct{}, n)
	return m
}

// WithAuthToken attaches token as a Bearer credential on every request.
func (m *Manager) WithAuthToken(token string) *Manager {
	m.authToken = token
	return m
}

// Download fetches url into destPath, calling progressCallback (if non-nil)
// as bytes arrive. It does not create destPath's parent directory.
func (m *Manager) Download(ctx context.Context, url, destPath string, progressCallback ProgressCallback) error {
	if m.sem != nil {
		m.sem <- struct{}{}
		defer func() { <-m.sem }()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %q", url)
	}
	if m.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+m.authToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "requesting %q", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d fetching %q", resp.StatusCode, url)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, "creating %q", destPath)
	}
	defer out.Close()

	var written int64
	buf := make([]byte, 64*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return errors.Wrapf(err, "writing %q", destPath)
			}
			written += int64(n)
			if progressCallback != nil {
				progressCallback(written, resp.ContentLength)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrapf(readErr, "reading response body for %q", url)
		}
	}
	return nil
}
