package types

import "errors"

var (
	ErrNeedNotFound      = errors.New("volunteer need not found")
	ErrRequestNotFound   = errors.New("volunteer request not found")
	ErrInvalidID         = errors.New("invalid id")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoSlotsRemaining  = errors.New("no volunteer slots remaining")
	ErrEmptyStatusUpdate = errors.New("status update has no fields")
	ErrEmptyNeedUpdate   = errors.New("need update has no fields")
)
