package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecodeJSON unmarshals the response body into a T.
func DecodeJSON[T any](resp Response) (T, error) {
	var out T
	if resp == nil {
		return out, errors.New("decode response: no response")
	}
	body := resp.Body()
	if len(body) == 0 {
		return out, fmt.Errorf("decode response: empty body (status %d)", resp.StatusCode())
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
