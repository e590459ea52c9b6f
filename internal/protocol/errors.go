package protocol

import "errors"

var (
	ErrUnknownMessage  = errors.New("protocol: unknown message")
	ErrEmptyMessage    = errors.New("protocol: empty message")
	ErrPayloadTooLarge = errors.New("protocol: payload too large")
)
