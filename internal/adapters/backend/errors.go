// internal/adapters/backend/errors.go
package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ammerola/storefront/internal/core/ports"
)

// Error kinds. Every *Error wraps exactly one of these.
var (
	ErrNetwork = errors.New("backend unreachable")
	ErrStatus  = errors.New("backend returned non-2xx status")
	ErrDecode  = errors.New("backend response could not be decoded")
)

// Error describes a failed backend call
type Error struct {
	Op         string
	ID         int
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.ID != 0 {
		msg = fmt.Sprintf("%s (id %d)", msg, e.ID)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes a 404 match ports.ErrNotFound
func (e *Error) Is(target error) bool {
	return target == ports.ErrNotFound && e.StatusCode == http.StatusNotFound
}

func networkError(op string, id int, err error) error {
	return &Error{Op: op, ID: id, Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
}

func statusError(op string, id, status int) error {
	return &Error{Op: op, ID: id, StatusCode: status, Err: ErrStatus}
}

func decodeError(op string, id int, err error) error {
	return &Error{Op: op, ID: id, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
}
