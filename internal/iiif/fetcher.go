package iiif

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
)

// DefaultMaxBodySize bounds a retrieved document. Large manuscripts produce
// manifests of a few megabytes; 32MB leaves ample headroom.
const DefaultMaxBodySize = 32 * 1024 * 1024

// acceptHeader prefers JSON-LD, which is what IIIF servers advertise.
const acceptHeader = "application/ld+json, application/json;q=0.9, */*;q=0.1"

// Fetcher retrieves Presentation documents over HTTP.
// A single GET is issued per call; failures are returned, never retried.
type Fetcher struct {
	client       *http.Client
	logger       *slog.Logger
	userAgent    string
	maxBodySize  int64
	manifestType string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the client used for requests.
// The default is http.DefaultClient, which has no timeout.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets the logger the fetcher reports retrieved URLs to.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum accepted body size in bytes.
// Non-positive values keep the default; larger values are capped so the
// one-byte overread used to detect oversized bodies cannot overflow.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = min(size, math.MaxInt64-1)
		}
	}
}

// WithManifestType sets the @type FetchManifest and ReadManifest expect.
// An empty string disables the @type check. CanvasType makes both accept a
// standalone canvas, converted as a single-canvas manifest.
func WithManifestType(t string) FetcherOption {
	return func(f *Fetcher) {
		f.manifestType = t
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:       http.DefaultClient,
		logger:       slog.Default(),
		maxBodySize:  DefaultMaxBodySize,
		manifestType: ManifestType,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Retrieve GETs url and checks the decoded document. An empty expectedType
// skips the @type check; @context is always checked.
func (f *Fetcher) Retrieve(ctx context.Context, url, expectedType string) (*Document, error) {
	f.logger.Info("retrieving document", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", acceptHeader)
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	// Read one byte past the limit to tell "exactly at limit" from "over".
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrFetch, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: %s (limit %d bytes)", ErrBodyTooLarge, url, f.maxBodySize)
	}

	f.logger.Debug("document retrieved",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return Decode(body, expectedType)
}

// FetchManifest retrieves and decodes a manifest.
func (f *Fetcher) FetchManifest(ctx context.Context, url string) (*Manifest, error) {
	if f.manifestType == CanvasType {
		c, err := f.FetchCanvas(ctx, url)
		if err != nil {
			return nil, err
		}
		return CanvasManifest(c), nil
	}

	doc, err := f.Retrieve(ctx, url, f.manifestType)
	if err != nil {
		return nil, err
	}
	return ParseManifest(doc)
}

// FetchCanvas retrieves and decodes a standalone sc:Canvas document.
func (f *Fetcher) FetchCanvas(ctx context.Context, url string) (*Canvas, error) {
	doc, err := f.Retrieve(ctx, url, CanvasType)
	if err != nil {
		return nil, err
	}
	return ParseCanvas(doc)
}

// ReadManifest decodes a manifest stored in a local file, applying the
// same checks as FetchManifest.
func (f *Fetcher) ReadManifest(path string) (*Manifest, error) {
	f.logger.Info("reading document", "path", path)

	data, err := os.ReadFile(path) //nolint:gosec // User-provided source path is intentional
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: %s (limit %d bytes)", ErrBodyTooLarge, path, f.maxBodySize)
	}

	doc, err := Decode(data, f.manifestType)
	if err != nil {
		return nil, err
	}
	if f.manifestType == CanvasType {
		c, err := ParseCanvas(doc)
		if err != nil {
			return nil, err
		}
		return CanvasManifest(c), nil
	}
	return ParseManifest(doc)
}
