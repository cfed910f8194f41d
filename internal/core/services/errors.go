// internal/core/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is returned for a (region, action) pair with no handler
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownItem is returned when the item id is not in the current inventory
	ErrUnknownItem = errors.New("item not in inventory")
	// ErrNotInCart is returned when the addressed line is missing from the cart
	ErrNotInCart = errors.New("item not in cart")
	// ErrNotEditing is returned for edit-mode actions on a row that is not being edited
	ErrNotEditing = errors.New("row is not being edited")
	// ErrInvalidCommand is returned when a command cannot be parsed
	ErrInvalidCommand = errors.New("invalid command")
)

// CommandError describes a failed command
type CommandError struct {
	Command Command
	Err     error
}

func (e *CommandError) Error() string {
	if e.Command.ItemID != 0 {
		return fmt.Sprintf("%s/%s (id %d): %v", e.Command.Region, e.Command.Action, e.Command.ItemID, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.Command.Region, e.Command.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsRejected reports whether err is a command the controller refused, as
// opposed to a backend failure
func IsRejected(err error) bool {
	return errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidCommand) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrNotInCart) ||
		errors.Is(err, ErrNotEditing)
}
