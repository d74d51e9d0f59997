package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies why an upstream fetch failed.
type Kind int

const (
	KindUnavailable Kind = iota
	KindTimeout
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "upstream timeout"
	case KindMalformed:
		return "upstream malformed"
	default:
		return "upstream unavailable"
	}
}

// FetchError is returned by every provider variant.
type FetchError struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Malformed builds a KindMalformed error.
func Malformed(name string, format string, args ...any) error {
	return &FetchError{Provider: name, Kind: KindMalformed, Err: fmt.Errorf(format, args...)}
}

// Unavailable builds a KindUnavailable error.
func Unavailable(name string, format string, args ...any) error {
	return &FetchError{Provider: name, Kind: KindUnavailable, Err: fmt.Errorf(format, args...)}
}

// Classify wraps a transport-level error, marking deadline and net timeouts
// as KindTimeout. Errors that already are a *FetchError pass through.
func Classify(name string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	kind := KindUnavailable
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = KindTimeout
	}
	return &FetchError{Provider: name, Kind: kind, Err: err}
}

// KindOf returns the kind of a provider error, KindUnavailable for foreign errors.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnavailable
}
