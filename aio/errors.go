package aio

import "errors"

// RequestError is the taxonomy of per-request failures a client-side AIO
// context can surface to a caller. Each failure cancels and re-arms the
// context; one failure never poisons it.
var (
	ErrSendFailed                     = errors.New("aio: request send failed")
	ErrRecvFailed                     = errors.New("aio: reply recv failed")
	ErrNoReplyMessage                 = errors.New("aio: no reply message received")
	ErrInvalidRequest                 = errors.New("aio: invalid request")
	ErrReplyChannelClosed             = errors.New("aio: reply channel closed")
	ErrAioContextChannelDisconnected  = errors.New("aio: context channel disconnected")
	ErrContextPoolChannelDisconnected = errors.New("aio: context pool channel disconnected")
)
