package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	StatusCode() int
	StatusText() string
	Body() []byte
	Header() http.Header
}

// RequestConfig carries per-call settings layered on top of the client configuration.
type RequestConfig struct {
	Headers map[string]string
	Query   map[string]string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Body-less verbs take no payload; write verbs send body as-is.
type Client interface {
	Get(ctx context.Context, url string, cfg *RequestConfig) (Response, error)
	Delete(ctx context.Context, url string, cfg *RequestConfig) (Response, error)
	Post(ctx context.Context, url string, body any, cfg *RequestConfig) (Response, error)
	Put(ctx context.Context, url string, body any, cfg *RequestConfig) (Response, error)
	Patch(ctx context.Context, url string, body any, cfg *RequestConfig) (Response, error)
}
