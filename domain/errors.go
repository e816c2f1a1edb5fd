package domain

import "errors"

var ErrPermitNotFound = errors.New("permit not found")
var ErrReceiptNotFound = errors.New("receipt not found")
var ErrInvalidReason = errors.New("bump reason must be at least 10 characters")
var ErrInvalidRange = errors.New("invalid receipt range")
var ErrInvalidCount = errors.New("count must be a positive integer")
var ErrUnknownAction = errors.New("unknown receipt action")
