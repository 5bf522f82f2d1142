package keeper

import "fmt"

// ErrorKind enumerates the error taxonomy of this module. Callers should
// type-assert to Error and switch on Kind() rather than matching on error
// text.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrAlreadyIncepted
	ErrUnknownPrefix
	ErrNonTransferable
	ErrMissingSecret
	ErrPrefixVanished
	ErrUnsupportedAlgorithm
	ErrColdStart
	ErrParse
	ErrStoreIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAlreadyIncepted:
		return "AlreadyIncepted"
	case ErrUnknownPrefix:
		return "UnknownPrefix"
	case ErrNonTransferable:
		return "NonTransferable"
	case ErrMissingSecret:
		return "MissingSecret"
	case ErrPrefixVanished:
		return "PrefixVanished"
	case ErrUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case ErrColdStart:
		return "ColdStart"
	case ErrParse:
		return "Parse"
	case ErrStoreIO:
		return "StoreIO"
	default:
		return "Unknown"
	}
}

// Error is this module's error interface: every error it returns can be
// type-asserted to Error to recover a stable Kind() without parsing
// messages.
type Error interface {
	error
	Kind() ErrorKind
	Unwrap() error
}

type errorImpl struct {
	kind  ErrorKind
	msg   string
	inner error
}

func (e *errorImpl) Kind() ErrorKind { return e.kind }
func (e *errorImpl) Unwrap() error   { return e.inner }

func (e *errorImpl) Error() string {
	if e.inner != nil {
		return fmt.Sprintf("keeper: %s: %s: %s", e.kind, e.msg, e.inner.Error())
	}
	return fmt.Sprintf("keeper: %s: %s", e.kind, e.msg)
}

// errorf builds a new Error of kind with no wrapped cause.
func errorf(kind ErrorKind, format string, a ...interface{}) *errorImpl {
	return &errorImpl{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// wrapErrorf builds a new Error of kind wrapping an underlying cause, e.g. a
// store.Handle I/O failure surfaced as ErrStoreIO.
func wrapErrorf(kind ErrorKind, err error, format string, a ...interface{}) *errorImpl {
	return &errorImpl{kind: kind, msg: fmt.Sprintf(format, a...), inner: err}
}

// NewError builds an exported Error of kind, for packages (e.g. streaming)
// that need to raise this module's taxonomy without reaching into
// unexported constructors.
func NewError(kind ErrorKind, format string, a ...interface{}) Error {
	return errorf(kind, format, a...)
}

// WrapError builds an exported Error of kind wrapping cause.
func WrapError(kind ErrorKind, cause error, format string, a ...interface{}) Error {
	return wrapErrorf(kind, cause, format, a...)
}
