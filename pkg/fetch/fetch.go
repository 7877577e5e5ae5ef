// Package fetch downloads GIF assets over HTTP with size and content-type
// enforcement. Failed downloads never leave a file behind at the destination.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jpillora/backoff"

	"github.com/bilbywilby/IASIP-gifs/pkg/config"
	"github.com/bilbywilby/IASIP-gifs/pkg/logger"
	"github.com/bilbywilby/IASIP-gifs/pkg/safeio"
)

// Failure categories. Callers dispatch with errors.Is.
var (
	ErrAlreadyExists    = errors.New("destination already exists")
	ErrWrongContentType = errors.New("unexpected content type")
	ErrTooLarge         = errors.New("response exceeds size ceiling")
	ErrNetwork          = errors.New("network failure")
)

// Error wraps a fetch failure with its URL and destination.
type Error struct {
	URL         string
	Destination string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s -> %s: %v", e.URL, e.Destination, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher retrieves remote assets within the configured bounds.
type Fetcher struct {
	client *http.Client
	cfg    config.FetchConfig
}

// New returns a fetcher whose HTTP client enforces the configured timeout.
func New(cfg config.FetchConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Fetch streams the asset at url into destination and returns the written
// size in bytes. The destination must not already exist. Transient network
// failures are retried with exponential backoff up to the configured attempt
// count; content-type and size violations fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, url, destination string) (int64, error) {
	if _, err := os.Stat(destination); err == nil {
		return 0, &Error{URL: url, Destination: destination, Err: ErrAlreadyExists}
	}
	if err := safeio.EnsureDir(filepath.Dir(destination)); err != nil {
		return 0, &Error{URL: url, Destination: destination, Err: err}
	}

	b := &backoff.Backoff{
		Min:    f.cfg.RetryMinWait,
		Max:    f.cfg.RetryMaxWait,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= f.cfg.RetryAttempts; attempt++ {
		size, err := f.fetchOnce(ctx, url, destination)
		if err == nil {
			return size, nil
		}
		lastErr = err
		if !retryable(err) || attempt == f.cfg.RetryAttempts {
			break
		}
		wait := b.Duration()
		logger.Warn("retrying download",
			logger.String("url", url),
			logger.Int("attempt", attempt),
			logger.String("backoff", wait.String()),
			logger.Err(err))
		select {
		case <-ctx.Done():
			return 0, &Error{URL: url, Destination: destination, Err: fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())}
		case <-time.After(wait):
		}
	}
	return 0, &Error{URL: url, Destination: destination, Err: lastErr}
}

// retryable reports whether a failure is worth another attempt. Only
// transport-level errors qualify; policy violations are terminal.
func retryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url, destination string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: unexpected status %s", ErrNetwork, resp.Status)
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ct, f.cfg.ContentType) {
		return 0, fmt.Errorf("%w: got %q, want %q", ErrWrongContentType, resp.Header.Get("Content-Type"), f.cfg.ContentType)
	}

	// Declared length is checked before streaming so oversized bodies are
	// never downloaded. An absent or lying header is caught by the copy
	// cutoff below, which enforces the same ceiling.
	if resp.ContentLength > f.cfg.MaxSizeBytes {
		return 0, fmt.Errorf("%w: declared %d bytes, ceiling %d", ErrTooLarge, resp.ContentLength, f.cfg.MaxSizeBytes)
	}

	return f.writeBody(resp.Body, destination)
}

// writeBody streams the body through a temp file in the destination
// directory, renaming into place only on full success.
func (f *Fetcher) writeBody(body io.Reader, destination string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(destination), "."+filepath.Base(destination)+".part-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	written, err := io.Copy(tmp, io.LimitReader(body, f.cfg.MaxSizeBytes+1))
	if err != nil {
		cleanup()
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if written > f.cfg.MaxSizeBytes {
		cleanup()
		return 0, fmt.Errorf("%w: body exceeds ceiling %d", ErrTooLarge, f.cfg.MaxSizeBytes)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return 0, err
	}
	if err := os.Rename(tmpName, destination); err != nil {
		_ = os.Remove(tmpName)
		return 0, err
	}
	return written, nil
}
