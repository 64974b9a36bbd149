package service

import "errors"

// Sentinel errors surfaced by the order service. Controllers map them to HTTP
// status codes with errors.Is.
var (
	// ErrValidation covers rejected checkouts: missing client name, empty item
	// list, out-of-domain multiplier, custom-priced item without a price.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned by operations that require the order to be
	// present in the targeted collection.
	ErrNotFound = errors.New("order not found")

	// ErrNotFinished is returned when archiving is requested for an order that
	// has not reached the terminal status.
	ErrNotFinished = errors.New("order is not finished")
)
