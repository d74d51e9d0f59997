package kite

import "fmt"

// APIError is the error envelope returned by Kite Connect.
type APIError struct {
	StatusCode int
	ErrorType  string
	Message    string
}

func (e *APIError) Error() string {
	if e.ErrorType == "" {
		return fmt.Sprintf("kite: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("kite: status %d: %s: %s", e.StatusCode, e.ErrorType, e.Message)
}

// IsTokenError reports whether the session token was rejected and needs renewing.
func (e *APIError) IsTokenError() bool {
	return e.ErrorType == "TokenException"
}
