// Package aliasclient lets callers address HTTP endpoints by short aliases such as
// "post" instead of "/posts/:id", filling ":name" placeholders from a parameter bag.
// The network work is delegated to an httpclient.Client.
package aliasclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/aliasclient/pkg/httpclient"
)

// Options configures a Client.
type Options[K ~string] struct {
	// Config is forwarded to a resty-backed client when HTTP is nil.
	Config httpclient.Config
	// HTTP replaces the default resty-backed client.
	HTTP    httpclient.Client
	Aliases map[K]string
	Logger  Logger
	// ResolverOptions are applied to the path resolver.
	ResolverOptions []ResolverOption
}

// Client issues HTTP calls against aliased paths. The type parameter K lets callers
// declare a named string type for their alias set.
type Client[K ~string] struct {
	http     httpclient.Client
	resolver *Resolver[K]
	log      Logger
}

// New builds a Client. Alias names must be non-blank.
func New[K ~string](opts Options[K]) (*Client[K], error) {
	var errs []error
	for name := range opts.Aliases {
		if strings.TrimSpace(string(name)) == "" {
			errs = append(errs, errors.New("alias name must not be empty"))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid aliases: %w", errors.Join(errs...))
	}

	transport := opts.HTTP
	if transport == nil {
		transport = httpclient.NewRestyClientWithConfig(opts.Config)
	}

	return &Client[K]{
		http:     transport,
		resolver: NewResolver(opts.Aliases, opts.ResolverOptions...),
		log:      ensureLogger(opts.Logger),
	}, nil
}

// Resolve returns the path a call with these arguments would be sent to.
func (c *Client[K]) Resolve(path K, params any) string {
	return c.resolver.Resolve(path, params)
}

// Resolver exposes the client's path resolver.
func (c *Client[K]) Resolver() *Resolver[K] { return c.resolver }

// Get resolves path with params and issues a GET. params is only used for the path.
func (c *Client[K]) Get(ctx context.Context, path K, params any, cfg *httpclient.RequestConfig) (httpclient.Response, error) {
	url := c.resolve(http.MethodGet, path, params)
	return c.http.Get(ctx, url, cfg)
}

// Delete resolves path with params and issues a DELETE. params is only used for the path.
func (c *Client[K]) Delete(ctx context.Context, path K, params any, cfg *httpclient.RequestConfig) (httpclient.Response, error) {
	url := c.resolve(http.MethodDelete, path, params)
	return c.http.Delete(ctx, url, cfg)
}

// Post resolves path with data and sends data as the request body. The same value
// fills the path placeholders and becomes the payload.
func (c *Client[K]) Post(ctx context.Context, path K, data any, cfg *httpclient.RequestConfig) (httpclient.Response, error) {
	url := c.resolve(http.MethodPost, path, data)
	return c.http.Post(ctx, url, data, cfg)
}

// Put behaves like Post with the PUT verb.
func (c *Client[K]) Put(ctx context.Context, path K, data any, cfg *httpclient.RequestConfig) (httpclient.Response, error) {
	url := c.resolve(http.MethodPut, path, data)
	return c.http.Put(ctx, url, data, cfg)
}

// Patch behaves like Post with the PATCH verb.
func (c *Client[K]) Patch(ctx context.Context, path K, data any, cfg *httpclient.RequestConfig) (httpclient.Response, error) {
	url := c.resolve(http.MethodPatch, path, data)
	return c.http.Patch(ctx, url, data, cfg)
}

// Do dispatches to the verb method named by method (case-insensitive).
func (c *Client[K]) Do(ctx context.Context, method string, path K, params any, cfg *httpclient.RequestConfig) (httpclient.Response, error) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case http.MethodGet:
		return c.Get(ctx, path, params, cfg)
	case http.MethodDelete:
		return c.Delete(ctx, path, params, cfg)
	case http.MethodPost:
		return c.Post(ctx, path, params, cfg)
	case http.MethodPut:
		return c.Put(ctx, path, params, cfg)
	case http.MethodPatch:
		return c.Patch(ctx, path, params, cfg)
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}
}

func (c *Client[K]) resolve(method string, path K, params any) string {
	url := c.resolver.Resolve(path, params)
	c.log.DebugObj("http call", "http_call", map[string]any{
		"method": method,
		"path":   string(path),
		"alias":  c.resolver.Has(path),
		"url":    url,
	})
	return url
}
