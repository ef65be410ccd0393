package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const chunkSize = 8 * 1024

// ProgressFunc receives (bytesSoFar, totalBytes) after every chunk. It is
// only invoked when the server reports a content length.
type ProgressFunc func(written, total int64)

// Client streams HTTP downloads to disk.
type Client struct {
	HTTP *http.Client
}

// NewClient returns a downloader with a sane default timeout for the
// connection phase; the body read is bounded by the caller's context.
func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: 0}}
}

func (c *Client) httpClient() *http.Client {
	if c == nil || c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// Fetch streams url to dest in fixed-size chunks. On any failure the partial
// destination file is removed before returning, so callers never observe a
// corrupt artifact at dest. Re-downloading overwrites dest.
func (c *Client) Fetch(ctx context.Context, url, dest string, onProgress ProgressFunc) error {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare download destination: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "flustudio/1.0")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	total := resp.ContentLength
	var written int64
	buf := make([]byte, chunkSize)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				out.Close()
				os.Remove(dest)
				return fmt.Errorf("write destination: %w", err)
			}
			written += int64(n)
			if onProgress != nil && total > 0 {
				onProgress(written, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			os.Remove(dest)
			return fmt.Errorf("read body: %w", readErr)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}

// Head checks that url is reachable without fetching the body. A 404
// reports found=false; transport errors are returned as-is so callers can
// decide whether to proceed anyway.
func (c *Client) Head(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode != http.StatusNotFound, nil
}
