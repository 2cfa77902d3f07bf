package storage

import "errors"

var (
	ErrShipmentNotFound        = errors.New("shipment not found")
	ErrQuoteNotFound           = errors.New("quote not found")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrDuplicateTrackingNumber = errors.New("tracking number already exists")
	ErrConcurrentUpdate        = errors.New("record changed concurrently")
)
