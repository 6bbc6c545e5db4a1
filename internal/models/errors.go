package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors shared by repositories, services and handlers. Callers match
// them with errors.Is after the usual fmt.Errorf("%w") wrapping.
var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoActiveCart      = errors.New("no active cart for session")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrDuplicateIdentity = errors.New("identity already registered")
)

// FieldErrors reports per-field validation failures so callers can re-display
// the offending form fields.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
