package domain

import (
	"errors"  // Sentinel errors
	"fmt"     // Error formatting
	"strconv" // Id formatting
	"strings" // Id joining
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrMalformedToken     = errors.New("malformed token")
	ErrNotActive          = errors.New("token not active")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("unknown user")
	ErrUnknownMenuItem    = errors.New("unknown menu item")
	ErrNotFound           = errors.New("not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUpstreamFailure    = errors.New("factory fulfillment failed")
)

// UnknownMenuItemError names every menu id in a cart that is not on the menu
type UnknownMenuItemError struct {
	IDs []uint
}

func (e *UnknownMenuItemError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf("%s: %s", ErrUnknownMenuItem, strings.Join(ids, ", "))
}

func (e *UnknownMenuItemError) Is(target error) bool { return target == ErrUnknownMenuItem }
