package search

import (
	"fmt"

	"github.com/inovacc/relic/internal/model"
)

// ErrorKind classifies transport failures for retry decisions.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindRateLimited
	KindTimeout
	KindAuthFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindTimeout:
		return "timeout"
	case KindAuthFailed:
		return "authentication failed"
	default:
		return "request failed"
	}
}

// TransportError wraps a failure from the injected request executor.
// Rate-limited and timeout errors are transient and retried once; the rest
// abort the operation.
type TransportError struct {
	Kind ErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("github: %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transient reports whether the error is worth a retry.
func (e *TransportError) Transient() bool {
	return e.Kind == KindRateLimited || e.Kind == KindTimeout
}

// SearchFailedError means the retry budget for a page was exhausted.
// Partial holds the records fetched before the failure; callers discard
// them by default but may opt into persisting what arrived.
type SearchFailedError struct {
	Query   string
	Page    int
	Partial []model.RepositoryRecord
	Err     error
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("search %q failed on page %d after retry: %v", e.Query, e.Page, e.Err)
}

func (e *SearchFailedError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing repository on direct lookup.
type NotFoundError struct {
	FullName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s", e.FullName)
}
