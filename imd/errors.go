package imd

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidInput = errors.New("imd: transmit frequencies must be finite numbers")
	ErrInvalidOrder = errors.New("imd: invalid order")
)

// InvalidInputError reports a transmit frequency that is not a usable number.
// Index is -1 when the set as a whole is rejected (no frequencies at all).
type InvalidInputError struct {
	Index int
	Value string
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return "imd: at least one transmit frequency is required"
	}

	return fmt.Sprintf("imd: transmit frequency %d is not numeric: %q", e.Index, e.Value)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// OrderReason distinguishes why an order was rejected.
type OrderReason int

const (
	ReasonEven OrderReason = iota + 1
	ReasonTooLow
)

func (r OrderReason) String() string {
	switch r {
	case ReasonEven:
		return "even"
	case ReasonTooLow:
		return "tooLow"
	default:
		return "OrderReason(" + strconv.Itoa(int(r)) + ")"
	}
}

// InvalidOrderError is returned by Calculate for orders that are even or
// below MinOrder.
type InvalidOrderError struct {
	Order  int
	Reason OrderReason
}

func (e *InvalidOrderError) Error() string {
	switch e.Reason {
	case ReasonEven:
		return fmt.Sprintf("imd: order must be odd, got %d", e.Order)
	case ReasonTooLow:
		return fmt.Sprintf("imd: order must be %d or higher, got %d", MinOrder, e.Order)
	default:
		return fmt.Sprintf("imd: invalid order %d", e.Order)
	}
}

func (e *InvalidOrderError) Is(target error) bool {
	return target == ErrInvalidOrder
}
