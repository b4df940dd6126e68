package mirror

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client fetches database files over HTTP with conditional caching:
// each fetch sends If-Modified-Since derived from the cached file's
// modification time, and a 304 answer is served from the cache with no
// further network traffic. The cached file on disk is the entire cache;
// its mtime doubles as the validation signal.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     Logger
}

// Logger is the subset of *log.Logger the client needs.
type Logger interface {
	Printf(format string, v ...any)
}

// NewClient returns a Client with the given request timeout.
func NewClient(timeout time.Duration, logger Logger) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    100,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		userAgent: DefaultUserAgent,
		logger:    logger,
	}
}

// FetchFile downloads url into filePath and returns the body bytes.
//
// When filePath already exists, the request is conditional on its
// mtime; a 304 Not Modified reply returns the cached bytes without
// touching the file. A fresh download streams the body to disk and to
// memory simultaneously, then sets the file's mtime from the
// Last-Modified response header, best-effort: failing to set the mtime
// only degrades the next run's cache validation, so it is logged and
// swallowed.
func (c *Client) FetchFile(ctx context.Context, url, filePath string) ([]byte, error) {
	var mtime time.Time
	info, statErr := os.Stat(filePath)
	if statErr == nil {
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%s exists but is not a regular file", filePath)
		}
		mtime = info.ModTime()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if !mtime.IsZero() {
		stamp := mtime.UTC().Format(http.TimeFormat)
		c.logger.Printf("request if-modified-since %q for %s", stamp, url)
		req.Header.Set("If-Modified-Since", stamp)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request for %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		c.logger.Printf("cached: %s", url)
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("reading cached %s: %w", filePath, err)
		}
		return data, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	c.logger.Printf("downloading %s", url)
	data, err := c.saveBody(resp, filePath)
	if err != nil {
		return nil, err
	}

	if lastMod, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		if err := os.Chtimes(filePath, time.Now(), lastMod); err != nil {
			c.logger.Printf("failed to set mtime of %s to %v: %v", filePath, lastMod, err)
		}
	}
	return data, nil
}

// saveBody streams the response body to filePath while accumulating it
// in memory, avoiding a second pass over the file.
func (c *Client) saveBody(resp *http.Response, filePath string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s for writing: %w", filePath, err)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	if _, err := io.Copy(io.MultiWriter(f, &buf), resp.Body); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing to %s: %w", filePath, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", filePath, err)
	}
	return buf.Bytes(), nil
}
