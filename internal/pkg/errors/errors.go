package errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrExpired  = errors.New("expired")
	ErrInvalid  = errors.New("invalid")
	ErrConflict = errors.New("conflict")
	ErrInternal = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsExpired(err error) bool {
	return errors.Is(err, ErrExpired)
}

// IsAbsent covers both absence flavors: callers that do not care whether an
// id never existed or expired just now treat them the same.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired)
}
