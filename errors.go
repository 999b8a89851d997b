package metadata

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for structural contract violations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidKey indicates an empty or whitespace-only key.
	ErrInvalidKey = errors.New("metadata: invalid key")

	// ErrNilArgument indicates a required argument was nil.
	ErrNilArgument = errors.New("metadata: nil argument")

	// ErrInvalidThreshold indicates a linear-tier threshold below one.
	ErrInvalidThreshold = errors.New("metadata: invalid threshold")

	// ErrInvalidConfig indicates a configuration file that could not be used.
	ErrInvalidConfig = errors.New("metadata: invalid configuration")
)

// Error kinds categorize errors by their type.
const (
	// KindPrecondition represents a violated call-site contract. Errors of
	// this kind are raised with panic.
	KindPrecondition = "precondition"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"
)

// Error is a structured error carrying the failed operation and the
// category of the failure.
//
// Precondition violations are delivered through panic with an *Error value,
// so a recovering caller can inspect it:
//
//	defer func() {
//		if r := recover(); r != nil {
//			if err, ok := r.(*metadata.Error); ok && errors.Is(err, metadata.ErrInvalidKey) {
//				// blank key
//			}
//		}
//	}()
type Error struct {
	// Op is the operation that failed (e.g., "Metadata.Set", "Merge").
	Op string

	// Kind categorizes the error (e.g., KindPrecondition).
	Kind string

	// Err is the underlying error.
	Err error

	// Key is the offending key, when there is one.
	Key string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("metadata: %s: %s", e.Op, e.Kind)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s (%s, op %s, key %q)", e.Err, e.Kind, e.Op, e.Key)
	}
	return fmt.Sprintf("%s (%s, op %s)", e.Err, e.Kind, e.Op)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op, when the target sets one), and
// otherwise delegates to the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// NewPreconditionError creates a new Error with KindPrecondition.
func NewPreconditionError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindPrecondition,
		Err:  err,
	}
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindConfiguration,
		Err:  err,
	}
}

// ValidateKey returns an error wrapping ErrInvalidKey when key is empty or
// consists only of whitespace.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

func mustKey(op, key string) {
	if err := ValidateKey(key); err != nil {
		panic(&Error{Op: op, Kind: KindPrecondition, Err: err, Key: key})
	}
}

func mustNotNil(op string, m Metadata) {
	if m == nil {
		panic(NewPreconditionError(op, ErrNilArgument))
	}
}
