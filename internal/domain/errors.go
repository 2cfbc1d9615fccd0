// Package domain provides shared domain-level sentinel errors and the typed
// errors that carry upstream and validation detail.
package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates the requested repository does not exist or is not visible.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput indicates a missing or malformed repository reference.
var ErrInvalidInput = errors.New("invalid input")

// ErrUpstreamAuth indicates missing or rejected credentials for an external API.
var ErrUpstreamAuth = errors.New("upstream authentication failed")

// ErrUpstreamRequest indicates a non-success response or transport failure from an external API.
var ErrUpstreamRequest = errors.New("upstream request failed")

// ErrMalformedModelOutput indicates the model response contained no parseable JSON object.
var ErrMalformedModelOutput = errors.New("model output was not valid JSON")

// ErrSchemaValidation indicates parsed model output does not satisfy the documentation schema.
var ErrSchemaValidation = errors.New("schema validation failed")

// ErrEmptyResult indicates the model returned no content.
var ErrEmptyResult = errors.New("empty generation result")

// UpstreamError describes a failed call to the snapshot or model provider.
// StatusCode is zero for transport-level failures.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s API error %d: %s", e.Service, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is classifies the error by status: 401/403 are auth failures, 404 is
// not-found, everything else is a request failure.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstreamAuth:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUpstreamRequest:
		return e.StatusCode != http.StatusUnauthorized &&
			e.StatusCode != http.StatusForbidden &&
			e.StatusCode != http.StatusNotFound
	}
	return false
}

// Retryable reports whether repeating the call may succeed: transport
// failures, 429 and 5xx responses.
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// MissingCredentialsError is a configuration error raised before any network
// call when a required API credential is absent.
type MissingCredentialsError struct {
	Service string
	Setting string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s credentials not configured (set %s)", e.Service, e.Setting)
}

// Is reports the error as an upstream auth failure so callers that only know
// the sentinel kinds still classify it correctly.
func (e *MissingCredentialsError) Is(target error) bool {
	return target == ErrUpstreamAuth
}

// SchemaError names the first field of the model output that failed validation.
// Path is dotted (e.g. "techStack.frontend"); the empty path means the document root.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchemaValidation, path, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaValidation
}

// IsRetryable reports whether err is worth retrying against an upstream.
func IsRetryable(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Retryable()
	}
	return false
}

// AttemptError classifies err from one upstream attempt that ran under its
// own deadline. If that deadline expired while parent is still live, the
// upstream hung: the result is a retryable transport failure for service
// that still matches context.DeadlineExceeded. Other errors pass through.
func AttemptError(parent context.Context, service string, err error) error {
	if err == nil || parent.Err() != nil || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Service: service, Err: err}
}
