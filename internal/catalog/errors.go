package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the resolve surface can report.
// Resolution APIs are total: these come back as values, never panics.
type ErrorKind string

const (
	KindAPIKeyNotConfigured ErrorKind = "api_key_not_configured"
	KindInvalidAPIKey       ErrorKind = "invalid_api_key"
	KindNetwork             ErrorKind = "network_error"
	KindRemoteAPI           ErrorKind = "remote_api_error"
	KindRateLimited         ErrorKind = "rate_limited"
	// KindNotFoundRemote is a 404 on a details fetch for a specific catalog
	// ID — distinct from a search returning zero candidates.
	KindNotFoundRemote ErrorKind = "not_found_remote"
	KindParsing        ErrorKind = "parsing_failed"
	KindStorage        ErrorKind = "storage_failed"
	KindCache          ErrorKind = "cache_failed"
)

// Error is the typed error value returned by the catalog client and the
// resolver. StatusCode is set only for KindRemoteAPI.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindRemoteAPI && e.Detail != "":
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Detail)
	case e.Kind == KindRemoteAPI:
		return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a typed error with a detail message.
func NewError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// WrapError builds a typed error around an underlying cause.
func WrapError(kind ErrorKind, err error) *Error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the kind from any error, defaulting to KindNetwork for
// untyped failures bubbling out of the HTTP layer.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindNetwork
}
