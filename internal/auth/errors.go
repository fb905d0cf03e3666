package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// the two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("auth: email or password is invalid")

	// ErrInvalidToken covers malformed, tampered, expired and revoked
	// tokens, and verification failures where session state could not be
	// read (fail closed).
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

// FieldErrors maps a field name to its validation messages
type FieldErrors map[string][]string

// Error implements the error interface
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, strings.Join(fe[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for a field
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}
