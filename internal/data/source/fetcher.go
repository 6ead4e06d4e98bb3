package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// maxDocumentSize bounds how much of a timeline document is read
const maxDocumentSize = 32 << 20

// ErrDocumentTooLarge is returned when a document exceeds maxDocumentSize
var ErrDocumentTooLarge = fmt.Errorf("document exceeds %d MiB", maxDocumentSize>>20)

// Fetcher retrieves the raw bytes behind a source locator
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// FileFetcher reads local files, accepting plain paths and file:// URLs
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(LocalPath(locator))
}

// HTTPFetcher downloads documents over HTTP(S)
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", locator, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("GET %s: %w", locator, ErrDocumentTooLarge)
	}
	return data, nil
}

// MultiFetcher routes http and https locators to HTTP and everything else to files
type MultiFetcher struct {
	HTTP Fetcher
	File Fetcher
}

func NewMultiFetcher(client *http.Client) *MultiFetcher {
	return &MultiFetcher{
		HTTP: NewHTTPFetcher(client),
		File: FileFetcher{},
	}
}

func (m *MultiFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if IsRemote(locator) {
		return m.HTTP.Fetch(ctx, locator)
	}
	return m.File.Fetch(ctx, locator)
}

// LocalPath returns the absolute file path behind a plain path or file:// locator
func LocalPath(locator string) string {
	path := strings.TrimPrefix(locator, "file://")
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// SameSource reports whether two locators name the same document
func SameSource(a, b string) bool {
	if IsRemote(a) || IsRemote(b) {
		return a == b
	}
	return LocalPath(a) == LocalPath(b)
}

// IsRemote reports whether locator is an http or https URL
func IsRemote(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
