package models

import "errors"

var (
	ErrConflictData    = errors.New("data conflicts with existing data")
	ErrDataNotFound    = errors.New("data not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAmountRequired  = errors.New("order has no amount")
	ErrMethodConflict  = errors.New("settlement method already locked")
	ErrRailUnavailable = errors.New("payment rail unavailable")
	ErrNoPendingCode   = errors.New("no order awaiting second factor")
	ErrCodeRejected    = errors.New("second factor code rejected")
	ErrInternalError   = errors.New("internal error")
)
