package client

import (
	"errors"
	"fmt"
)

// ErrorInfo is the uniform error shape surfaced by every API call.
//
// Status carries the HTTP status code, or 0 for transport-level failures
// (connectivity, timeout). OriginalError preserves the underlying error text
// for diagnosis and is not meant for display.
type ErrorInfo struct {
	Message       string `json:"message"`
	Status        int    `json:"status"`
	OriginalError string `json:"originalError,omitempty"`
}

func (e *ErrorInfo) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// AsErrorInfo unwraps err into an *ErrorInfo, looking through any wrapping.
// Every error returned by this package is one; the bool guards against
// foreign errors.
func AsErrorInfo(err error) (*ErrorInfo, bool) {
	var info *ErrorInfo
	if errors.As(err, &info) {
		return info, true
	}
	return nil, false
}
