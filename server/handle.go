package server

import (
	"context"
	"sync"

	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/ulid"
)

// Handle is a running server: a listening socket, a pool of AIO workers each
// paired with a clone of the ReqRep frontend, and a supervisor goroutine that
// watches for the stop signal and tears everything down once.
type Handle struct {
	id       ulid.ID
	reqRepID message.ReqRepId

	pingC   chan chan struct{}
	done    chan struct{} // closed once StopAsync is first called
	stopped chan struct{} // closed once teardown has finished
	stopOne sync.Once
}

// ID returns the ULID this handle is registered under.
func (h *Handle) ID() ulid.ID { return h.id }

// ReqRepID returns the ReqRepId this server is fronting.
func (h *Handle) ReqRepID() message.ReqRepId { return h.reqRepID }

// Ping confirms the supervisor goroutine is alive and responsive.
func (h *Handle) Ping(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case h.pingC <- reply:
	case <-h.stopped:
		return ErrAlreadyStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-h.stopped:
		return ErrAlreadyStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StopAsync requests shutdown without blocking for it to complete. Safe to
// call more than once; only the first call has any effect.
func (h *Handle) StopAsync() {
	h.stopOne.Do(func() { close(h.done) })
}

// AwaitShutdown blocks until the server has fully torn down or ctx expires.
func (h *Handle) AwaitShutdown(ctx context.Context) error {
	select {
	case <-h.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StopSignalled reports whether shutdown has been requested (it may still be
// in progress; AwaitShutdown reports completion).
func (h *Handle) StopSignalled() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
