package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samvad-hq/aliasclient/pkg/httpclient"
	"github.com/spf13/cast"
)

const defaultHistoryLimit = 10

// Invocation is a parsed command line: either a call or a history listing.
type Invocation struct {
	History bool
	Limit   int
	Call    Call
}

// Inputs holds the raw command line pieces.
type Inputs struct {
	Args    []string
	Headers []string
	Query   []string
	Data    string
}

// ParseInvocation turns command line inputs into an Invocation.
//
//	history [n]
//	<method> <alias|path> [key=value | key:=json ...]
//
// key=value sets a string parameter; key:=json sets a raw JSON value, e.g. id:=0.
// Parameters given this way override keys from Data.
func ParseInvocation(in Inputs) (Invocation, error) {
	if len(in.Args) == 0 {
		return Invocation{}, errors.New("missing command: expected a method or \"history\"")
	}

	if strings.EqualFold(in.Args[0], "history") {
		inv := Invocation{History: true, Limit: defaultHistoryLimit}
		if len(in.Args) > 1 {
			n, err := cast.ToIntE(in.Args[1])
			if err != nil || n <= 0 {
				return Invocation{}, fmt.Errorf("invalid history limit %q", in.Args[1])
			}
			inv.Limit = n
		}
		return inv, nil
	}

	if len(in.Args) < 2 {
		return Invocation{}, errors.New("missing path: expected <method> <alias|path>")
	}
	method, ok := normalizeMethod(in.Args[0])
	if !ok {
		return Invocation{}, fmt.Errorf("unsupported method %q", in.Args[0])
	}
	path := strings.TrimSpace(in.Args[1])
	if path == "" {
		return Invocation{}, errors.New("path must not be empty")
	}

	params, err := parseParams(in.Data, in.Args[2:])
	if err != nil {
		return Invocation{}, err
	}
	req, err := parseRequestConfig(in.Headers, in.Query)
	if err != nil {
		return Invocation{}, err
	}

	return Invocation{Call: Call{
		Method:  method,
		Path:    path,
		Params:  params,
		Request: req,
	}}, nil
}

func normalizeMethod(method string) (string, bool) {
	m := strings.ToUpper(strings.TrimSpace(method))
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return m, true
	}
	return "", false
}

// parseParams returns nil when no parameters were given, so placeholders stay as-is.
func parseParams(data string, pairs []string) (map[string]any, error) {
	var params map[string]any
	if data = strings.TrimSpace(data); data != "" {
		if err := json.Unmarshal([]byte(data), &params); err != nil {
			return nil, fmt.Errorf("decode --data: %w", err)
		}
		if params == nil {
			params = map[string]any{}
		}
	}

	for _, pair := range pairs {
		if params == nil {
			params = map[string]any{}
		}
		if key, raw, ok := strings.Cut(pair, ":="); ok && !strings.Contains(key, "=") {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("invalid parameter %q", pair)
			}
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return nil, fmt.Errorf("parameter %q: %w", key, err)
			}
			params[key] = v
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected key=value or key:=json)", pair)
		}
		params[key] = val
	}
	return params, nil
}

func parseRequestConfig(headers, query []string) (*httpclient.RequestConfig, error) {
	if len(headers) == 0 && len(query) == 0 {
		return nil, nil
	}
	cfg := &httpclient.RequestConfig{}
	for _, h := range headers {
		key, val, ok := strings.Cut(h, ":")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q (expected Name: value)", h)
		}
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		cfg.Headers[key] = val
	}
	for _, q := range query {
		key, val, ok := strings.Cut(q, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", q)
		}
		if cfg.Query == nil {
			cfg.Query = map[string]string{}
		}
		cfg.Query[key] = val
	}
	return cfg, nil
}
