// Package syncerr classifies failures of a sync run so callers can decide between aborting,
// degrading, and reporting per source.
package syncerr

import (
	"errors"
	"fmt"
)

// Kind is the broad category of a sync failure.
type Kind string

const (
	// KindConfig is a missing or malformed configuration.  Fatal before any remote call.
	KindConfig Kind = "config"
	// KindEnumeration is a failed listing or metadata fetch during the first pass.  Fatal for the
	// whole run, because the reference map would be incomplete.
	KindEnumeration Kind = "enumeration"
	// KindPage is a failed body conversion for one page.  Recovered with an empty body.
	KindPage Kind = "page"
	// KindAsset is a failed asset download.  Recovered by keeping the remote locator.
	KindAsset Kind = "asset"
	// KindFilesystem is a failed write or delete.  Fails the owning source only.
	KindFilesystem Kind = "filesystem"
	// KindCanceled is a run stopped by its context.  Sources it interrupts are neither written
	// further nor pruned.
	KindCanceled Kind = "canceled"
)

// Error carries a Kind alongside the wrapped cause.
type Error struct {
	Kind    Kind
	Source  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Source != "" {
		prefix = fmt.Sprintf("%s(%s)", e.Kind, e.Source)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an unwrapped classified error.
func New(kind Kind, source string, format string, a ...any) *Error {
	return &Error{Kind: kind, Source: source, Message: fmt.Sprintf(format, a...)}
}

// Wrap classifies err.  A nil err yields nil.
func Wrap(err error, kind Kind, source string, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Source: source, Message: message, Err: err}
}

// KindOf returns the Kind of the outermost classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// ExitCode maps an error to a process exit status.  Only configuration and enumeration failures
// (and failed sources) are meant to reach the process boundary.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind, ok := KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case KindConfig:
		return 7
	case KindEnumeration:
		return 8
	case KindFilesystem:
		return 11
	case KindCanceled:
		return 130
	default:
		return 1
	}
}
