package coursevane

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies failures so callers can branch on the category
// instead of string-matching messages.
type ErrorKind int

const (
	// KindUnknown is the zero value, reported for errors this package
	// did not produce.
	KindUnknown ErrorKind = iota
	// KindNotFound: an identifier or key is absent, user-correctable.
	KindNotFound
	// KindUnavailable: an upstream fetch or parse failed, retry later.
	KindUnavailable
	// KindRateLimited: the refresh throttle rejected the call, retry
	// after Error.RetryAfter.
	KindRateLimited
	// KindMalformed: a structural assumption about a page was violated.
	// The extractor needs updating, retrying will not help.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

type Error struct {
	Kind ErrorKind
	Op   string
	// RetryAfter is only set for KindRateLimited.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Kind extracts the classification from an error chain.
func Kind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// RetryAfter reports the wait carried by a rate-limited error, zero
// otherwise.
func RetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimited {
		return e.RetryAfter
	}
	return 0
}

func NotFound(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

func Unavailable(op string, err error) error {
	return &Error{Kind: KindUnavailable, Op: op, Err: err}
}

func RateLimited(op string, retryAfter time.Duration) error {
	return &Error{Kind: KindRateLimited, Op: op, RetryAfter: retryAfter}
}

func Malformed(op string, err error) error {
	return &Error{Kind: KindMalformed, Op: op, Err: err}
}
