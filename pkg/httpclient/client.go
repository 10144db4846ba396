package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

var _ HTTPClient = (*httpClient)(nil)

type HTTPClient interface {
	Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*httpClient)

// WithStaticHeaders sets headers sent on every request. Per-call headers win.
func WithStaticHeaders(headers map[string]string) Option {
	return func(c *httpClient) {
		for key, value := range headers {
			c.static[key] = value
		}
	}
}

type httpClient struct {
	client *http.Client
	static map[string]string
}

func NewHTTPClient(timeout time.Duration, opts ...Option) HTTPClient {
	c := &httpClient{
		client: &http.Client{Timeout: timeout},
		static: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, headers)
	return c.Do(req)
}

func (c *httpClient) Do(req *http.Request) (*http.Response, error) {
	for key, value := range c.static {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	return c.client.Do(req)
}

func (c *httpClient) setHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}
