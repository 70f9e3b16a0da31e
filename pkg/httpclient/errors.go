package httpclient

import (
	"fmt"
	"net/http"
)

// Error is returned by Client implementations when a call fails. Response is nil when
// no response was received (network error, timeout, cancelled context).
type Error struct {
	Method   string
	URL      string
	Response Response
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	target := e.URL
	if e.Method != "" {
		target = e.Method + " " + target
	}
	switch {
	case e.Response != nil && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", target, e.Response.StatusCode(), e.Err)
	case e.Response != nil:
		return fmt.Sprintf("%s: status %d %s", target, e.Response.StatusCode(), e.Response.StatusText())
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", target, e.Err)
	default:
		return target + ": request failed"
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StaticResponse is a Response built in memory rather than read off the wire.
type StaticResponse struct {
	Code    int
	Text    string
	Data    []byte
	Headers http.Header
}

func (r *StaticResponse) StatusCode() int     { return r.Code }
func (r *StaticResponse) StatusText() string  { return r.Text }
func (r *StaticResponse) Body() []byte        { return r.Data }
func (r *StaticResponse) Header() http.Header { return r.Headers }
