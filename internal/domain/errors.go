package domain

import (
	"errors"
	"fmt"
)

// ErrForbidden means the acting user neither owns the resource nor holds
// admin privilege.
var ErrForbidden = errors.New("not authorized")

// NotFoundError identifies a missing sweet or order by kind and id.
type NotFoundError struct {
	Kind string // "sweet" | "order" | "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s with id %s not found", e.Kind, e.ID)
}

// InsufficientStockError is returned when a requested quantity exceeds the
// on-hand quantity. It aborts the whole enclosing operation.
type InsufficientStockError struct {
	SweetName string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient quantity for %s. Available: %d, Requested: %d",
		e.SweetName, e.Available, e.Requested)
}

// InvalidStateError is returned when an order's current status does not
// permit the requested transition.
type InvalidStateError struct {
	Status string
}

func (e *InvalidStateError) Error() string {
	return "cannot cancel order with status: " + e.Status
}

// InvalidTransitionError is returned when a status update moves backward or
// leaves a terminal status.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
