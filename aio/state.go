// Package aio implements the per-context async I/O state machine that pumps
// a scalability-protocol socket context's events to a ReqRep service.
//
// go.nanomsg.org/mangos/v3 has no native async-callback API the way nng's
// Rust bindings do — it is pure Go and already internally goroutine/channel
// driven (see the vendored protocol/xrep pipe.sender/pipe.receiver
// goroutines in the example pack). Each AIO context here is therefore one
// dedicated goroutine issuing a single outstanding blocking mangos.Context
// call at a time; the goroutine itself plays the role of the native
// callback thread, and "cancel the AIO operation" is implemented as closing
// the underlying mangos.Context, which unblocks any in-flight call with
// mangos.ErrClosed.
package aio

// State is one of the three states a context's state machine can be in.
type State int

const (
	StateRecv State = iota
	StateSend
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRecv:
		return "recv"
	case StateSend:
		return "send"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
