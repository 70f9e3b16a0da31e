package httpclient

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config is forwarded to the underlying resty client at construction.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	Headers       map[string]string
	RetryCount    int
	RetryWaitTime time.Duration
	// FailOnErrorStatus turns responses with status >= 400 into *Error values that
	// still carry the response.
	FailOnErrorStatus bool
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client            *resty.Client
	failOnErrorStatus bool
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return NewRestyClientWithConfig(Config{Timeout: timeout})
}

// NewRestyClientWithConfig creates a RestyClient from a full Config.
func NewRestyClientWithConfig(cfg Config) *RestyClient {
	return &RestyClient{
		client:            NewRestyHTTPClient(cfg),
		failOnErrorStatus: cfg.FailOnErrorStatus,
	}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(cfg Config) *resty.Client {
	c := resty.New()
	if cfg.BaseURL != "" {
		c.SetBaseURL(cfg.BaseURL)
	}
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	if len(cfg.Headers) > 0 {
		c.SetHeaders(cfg.Headers)
	}
	if cfg.RetryCount > 0 {
		c.SetRetryCount(cfg.RetryCount)
		if cfg.RetryWaitTime > 0 {
			c.SetRetryWaitTime(cfg.RetryWaitTime)
		}
	}
	return c
}

// Get performs an HTTP GET request.
func (r *RestyClient) Get(ctx context.Context, url string, cfg *RequestConfig) (Response, error) {
	return r.execute(ctx, http.MethodGet, url, nil, cfg)
}

// Delete performs an HTTP DELETE request.
func (r *RestyClient) Delete(ctx context.Context, url string, cfg *RequestConfig) (Response, error) {
	return r.execute(ctx, http.MethodDelete, url, nil, cfg)
}

// Post performs an HTTP POST request with body.
func (r *RestyClient) Post(ctx context.Context, url string, body any, cfg *RequestConfig) (Response, error) {
	return r.execute(ctx, http.MethodPost, url, body, cfg)
}

// Put performs an HTTP PUT request with body.
func (r *RestyClient) Put(ctx context.Context, url string, body any, cfg *RequestConfig) (Response, error) {
	return r.execute(ctx, http.MethodPut, url, body, cfg)
}

// Patch performs an HTTP PATCH request with body.
func (r *RestyClient) Patch(ctx context.Context, url string, body any, cfg *RequestConfig) (Response, error) {
	return r.execute(ctx, http.MethodPatch, url, body, cfg)
}

func (r *RestyClient) execute(ctx context.Context, method, target string, body any, cfg *RequestConfig) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := r.client.R().SetContext(ctx)
	if cfg != nil {
		if len(cfg.Headers) > 0 {
			req.SetHeaders(cfg.Headers)
		}
		if len(cfg.Query) > 0 {
			req.SetQueryParams(cfg.Query)
		}
	}
	setBody(req, body)

	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, &Error{Method: method, URL: target, Err: err}
	}
	if resp == nil || resp.RawResponse == nil {
		return nil, &Error{Method: method, URL: target, Err: errors.New("no response received")}
	}

	out := &restyResponseAdapter{resp: resp}
	if r.failOnErrorStatus && resp.IsError() {
		return out, &Error{Method: method, URL: target, Response: out}
	}
	return out, nil
}

// setBody maps form-like bodies onto resty's form helpers and passes everything else through.
func setBody(req *resty.Request, body any) {
	switch b := body.(type) {
	case nil:
	case url.Values:
		req.SetFormDataFromValues(b)
	case *multipart.Form:
		if b == nil {
			return
		}
		fields := make(map[string]string, len(b.Value))
		for k, vals := range b.Value {
			if len(vals) > 0 {
				fields[k] = vals[0]
			}
		}
		req.SetMultipartFormData(fields)
	default:
		req.SetBody(body)
	}
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }

// StatusText returns the reason phrase, e.g. "Not Found" for "404 Not Found".
func (r *restyResponseAdapter) StatusText() string {
	code := r.resp.StatusCode()
	text := strings.TrimSpace(strings.TrimPrefix(r.resp.Status(), strconv.Itoa(code)))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}
