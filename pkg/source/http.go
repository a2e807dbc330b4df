package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Default HTTP source settings.
const (
	DefaultHTTPTimeout = 10 * time.Second
	DefaultMaxBodySize = 10 << 20 // 10MB
)

// ErrBodyTooLarge is returned when a remote bundle exceeds the size limit.
var ErrBodyTooLarge = errors.New("source: response body exceeds size limit")

// HTTP serves bundles from a remote server. A 404 or 410 response means the
// bundle does not exist; any other failure is a transport error.
type HTTP struct {
	client      *http.Client
	base        *url.URL
	locate      Locator
	header      http.Header
	maxBodySize int64
}

// HTTPOption configures the HTTP source.
type HTTPOption func(*HTTP)

// WithHTTPClient sets the client used for requests.
// Default: a client with a 10 second timeout.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.header.Add(key, value)
	}
}

// WithMaxBodySize caps the size of a response body.
// Default: 10MB.
func WithMaxBodySize(n int64) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}

// NewHTTP creates an HTTP source. Paths returned by locate are resolved
// against baseURL. A nil locator defaults to Layout(".json").
//
// Example:
//
//	src, err := source.NewHTTP("https://cdn.example.com/locales/", nil,
//	    source.WithHeader("Authorization", "Bearer "+token),
//	)
func NewHTTP(baseURL string, locate Locator, opts ...HTTPOption) (*HTTP, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("source: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("source: invalid base URL scheme %q", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if locate == nil {
		locate = Layout(".json")
	}

	h := &HTTP{
		client:      &http.Client{Timeout: DefaultHTTPTimeout},
		base:        base,
		locate:      locate,
		header:      make(http.Header),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// Fetch implements Fetcher.
func (s *HTTP) Fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
	p, ok := s.locate(lang, namespace)
	if !ok {
		return nil, NotFound(lang, namespace, nil)
	}

	ref, err := url.Parse(p)
	if err != nil {
		return nil, Transport(lang, namespace, err)
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, Transport(lang, namespace, err)
	}
	for k, v := range s.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json, application/yaml, application/toml;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, Transport(lang, namespace, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, NotFound(lang, namespace, fmt.Errorf("GET %s: %s", target, resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, Transport(lang, namespace, fmt.Errorf("GET %s: %s", target, resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize+1))
	if err != nil {
		return nil, Transport(lang, namespace, err)
	}
	if int64(len(data)) > s.maxBodySize {
		return nil, Transport(lang, namespace, ErrBodyTooLarge)
	}

	b, err := i18n.Decode(responseFormat(resp.Header.Get("Content-Type"), target.Path), data)
	if err != nil {
		return nil, Transport(lang, namespace, err)
	}

	return b, nil
}

// responseFormat picks the document format from the Content-Type header,
// then from the path extension, defaulting to JSON.
func responseFormat(contentType, p string) i18n.Format {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/json":
			return i18n.FormatJSON
		case "application/yaml", "application/x-yaml", "text/yaml":
			return i18n.FormatYAML
		case "application/toml":
			return i18n.FormatTOML
		}
	}
	if f, ok := i18n.FormatFromPath(p); ok {
		return f
	}
	return i18n.FormatJSON
}

var _ Fetcher = (*HTTP)(nil)
