package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies the failures that can occur during a download run
type ErrorType string

const (
	ErrorTypeInvalidLocator       ErrorType = "invalid_locator"
	ErrorTypeNetwork              ErrorType = "network"
	ErrorTypeResponse             ErrorType = "response"
	ErrorTypeDateParse            ErrorType = "date_parse"
	ErrorTypeDirectoryReservation ErrorType = "directory_reservation"
	ErrorTypeFileWrite            ErrorType = "file_write"
)

// Error carries the failure class plus enough context (HTTP code, failing
// locator) to diagnose a run without re-fetching anything.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	URL     string
}

func (e *Error) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s error: %s (url: %s)", e.Type, e.Message, e.URL)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// NewInvalidLocator reports a locator that fails the superficial shape check
func NewInvalidLocator(url, message string) *Error {
	return &Error{Type: ErrorTypeInvalidLocator, Message: message, URL: url}
}

// NewNetwork reports a connection or timeout failure (no response at all)
func NewNetwork(url string, err error) *Error {
	return &Error{Type: ErrorTypeNetwork, Message: err.Error(), URL: url}
}

// NewResponse reports a non-success status or an unparseable body
func NewResponse(url, message string, code int) *Error {
	return &Error{Type: ErrorTypeResponse, Message: message, Code: code, URL: url}
}

// NewDateParse reports a malformed issue date. Always fatal for the run.
func NewDateParse(date string, err error) *Error {
	return &Error{Type: ErrorTypeDateParse, Message: fmt.Sprintf("invalid date %q: %v", date, err)}
}

// NewDirectoryReservation reports exhausted directory naming attempts
func NewDirectoryReservation(base string, attempts int) *Error {
	return &Error{
		Type:    ErrorTypeDirectoryReservation,
		Message: fmt.Sprintf("no free directory name for %q after %d attempts", base, attempts),
	}
}

// NewFileWrite reports an I/O failure during persistence
func NewFileWrite(path string, err error) *Error {
	return &Error{Type: ErrorTypeFileWrite, Message: err.Error(), URL: path}
}

// IsType reports whether err is, or wraps, an *Error of the given type
func IsType(err error, t ErrorType) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Type == t
}
