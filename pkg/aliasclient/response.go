package aliasclient

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/samvad-hq/aliasclient/pkg/httpclient"
)

const (
	// NotRespondingStatus is the status attached to errors that arrived without a response.
	NotRespondingStatus = http.StatusServiceUnavailable
	// NotRespondingText is the status text that goes with NotRespondingStatus.
	NotRespondingText = "Server is not responding."
)

// IsSuccessful reports whether resp exists and has a 2xx status.
func IsSuccessful(resp httpclient.Response) bool {
	if absent(resp) {
		return false
	}
	status := resp.StatusCode()
	return status >= 200 && status < 300
}

// IsFailure reports whether resp exists and has a status of 400 or above.
// Redirect statuses are neither successful nor failures.
func IsFailure(resp httpclient.Response) bool {
	if absent(resp) {
		return false
	}
	return resp.StatusCode() >= 400
}

// NotRespondingResponse builds the synthetic 503 response used by Normalize.
func NotRespondingResponse() httpclient.Response {
	return &httpclient.StaticResponse{
		Code: NotRespondingStatus,
		Text: NotRespondingText,
	}
}

// Normalize guarantees the returned error carries a response. An *httpclient.Error that
// already has one is returned as-is; otherwise a new *httpclient.Error is built with the
// synthetic 503 response. The input is never modified. Normalize(nil) is nil.
func Normalize(err error) *httpclient.Error {
	if err == nil {
		return nil
	}

	var httpErr *httpclient.Error
	if errors.As(err, &httpErr) && httpErr != nil {
		if !absent(httpErr.Response) {
			return httpErr
		}
		out := *httpErr
		out.Response = NotRespondingResponse()
		return &out
	}

	return &httpclient.Error{
		Response: NotRespondingResponse(),
		Err:      err,
	}
}

func absent(resp httpclient.Response) bool {
	if resp == nil {
		return true
	}
	rv := reflect.ValueOf(resp)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
