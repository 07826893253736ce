package services

import "errors"

// Sentinel errors surfaced by the ledger services. Handlers map these onto
// the HTTP error taxonomy.
var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrWorkNotOnSale     = errors.New("work not on sale")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrVersionConflict   = errors.New("concurrent stock update, retry")
	ErrInvalidMovement   = errors.New("invalid movement type")
	ErrNothingToPay      = errors.New("no payable records in selection")
)
