package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx HTTP response from the identity provider.
// Message is the provider's own text, passed through unchanged.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// newHTTPError picks the provider's message out of the known error shapes.
func newHTTPError(status int, body []byte) *HTTPError {
	var apiErr struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
		ErrorCode        string `json:"error_code"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		e := &HTTPError{StatusCode: status, Code: apiErr.ErrorCode}
		for _, m := range []string{apiErr.Msg, apiErr.ErrorDescription, apiErr.Message, apiErr.Error} {
			if m != "" {
				e.Message = m
				return e
			}
		}
	}
	return &HTTPError{StatusCode: status, Message: string(body)}
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Message returns the provider's message when err wraps an HTTPError, and
// err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}
