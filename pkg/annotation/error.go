package annotation

import (
	"errors"
)

// Kind categorises a decode failure so that callers can branch on it.
type Kind int

const (
	// KindNone is reported for nil errors.
	KindNone Kind = iota
	// KindInvalidArgument means the caller passed an empty annotation.
	KindInvalidArgument
	// KindFormat means the text is not an encoded annotation.
	KindFormat
	// KindSyntax means the payload is not valid base64 encoded JSON.
	KindSyntax
	// KindUnexpected covers every other failure.
	KindUnexpected
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrFormat          = errors.New("invalid annotation format")
	ErrSyntax          = errors.New("annotation syntax error")
	ErrUnexpected      = errors.New("unexpected annotation error")
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidArgument:
		return "invalid argument"
	case KindFormat:
		return "format"
	case KindSyntax:
		return "syntax"
	case KindUnexpected:
		return "unexpected"
	}

	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindFormat:
		return ErrFormat
	case KindSyntax:
		return ErrSyntax
	case KindNone, KindUnexpected:
	}

	return ErrUnexpected
}

// Error is returned by [Decode] and [Encode].
type Error struct {
	Err  error
	Kind Kind
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}

	return e.Kind.sentinel().Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error for e's [Kind].
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf returns the [Kind] of err. Errors that did not come from this
// package are [KindUnexpected].
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var annErr *Error
	if errors.As(err, &annErr) {
		return annErr.Kind
	}

	return KindUnexpected
}
