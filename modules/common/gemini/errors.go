package gemini

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrMissingAPIKey is returned by every call when no key was configured.
	ErrMissingAPIKey = errors.New("gemini API key is not configured")
	// ErrNoImage means the image response carried no inline image data.
	ErrNoImage = errors.New("no image produced")
)

// ErrorKind separates failures the UI may want to tell apart.
type ErrorKind string

const (
	KindAuth       ErrorKind = "auth"
	KindTransport  ErrorKind = "transport"
	KindValidation ErrorKind = "validation"
)

// ProviderError wraps any failure of a provider call.
type ProviderError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a provider error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func wrapCallError(op string, err error) error {
	return &ProviderError{Kind: classify(err), Op: op, Err: err}
}

// classify maps SDK failures onto an ErrorKind. Typed API errors are
// classified by HTTP status; anything else falls back to the error text.
func classify(err error) ErrorKind {
	if errors.Is(err, ErrMissingAPIKey) {
		return KindAuth
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return KindAuth
		case 400:
			if mentionsAPIKey(apiErr.Message) {
				return KindAuth
			}
			return KindValidation
		}
		return KindTransport
	}

	msg := err.Error()
	if strings.Contains(msg, "UNAUTHENTICATED") ||
		strings.Contains(msg, "PERMISSION_DENIED") ||
		mentionsAPIKey(msg) {
		return KindAuth
	}
	return KindTransport
}

func mentionsAPIKey(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "api key")
}
