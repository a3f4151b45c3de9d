package aio

import (
	"context"
	"errors"

	"go.nanomsg.org/mangos/v3"

	"github.com/sage-x-project/nngmux/internal/log"
	"github.com/sage-x-project/nngmux/reqrep"
)

// ServerLoop drives one AIO context on the server side: recv -> ReqRep.Send
// -> send -> recv, strictly serialized. Requests on a single AIO context
// never pipeline.
type ServerLoop struct {
	Context mangos.Context
	Service *reqrep.ReqRep[[]byte, []byte]
	Logger  log.Logger
}

// Run executes the state machine until the context is closed or ctx is done.
// It never returns early on a processing error: any non-close error is
// logged and the context is rearmed with a fresh recv.
func (l *ServerLoop) Run(ctx context.Context) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}

	state := StateRecv
	for state != StateClosed {
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch state {
		case StateRecv:
			state = l.doRecv(ctx, logger)
		case StateSend:
			// unreachable: doRecv drives straight through to the send and
			// back to recv itself, since mangos' blocking API gives us no
			// other place to suspend between the two. Kept as an explicit
			// state so the transition table stays legible.
			state = StateRecv
		}
	}
}

func (l *ServerLoop) doRecv(ctx context.Context, logger log.Logger) State {
	body, err := l.Context.Recv()
	if err != nil {
		if errors.Is(err, mangos.ErrClosed) {
			return StateClosed
		}
		logger.Warn("aio: server context recv failed, re-arming", log.Err(err))
		return StateRecv
	}

	recv, sendErr := l.Service.Send(ctx, body)
	if sendErr != nil {
		logger.Warn("aio: reqrep send failed, cancelling and re-arming", log.Err(sendErr))
		return StateRecv
	}

	reply, err := recv.Recv(ctx)
	if err != nil {
		logger.Warn("aio: reqrep reply failed, cancelling and re-arming", log.Err(err))
		return StateRecv
	}

	if err := l.Context.Send(reply); err != nil {
		if errors.Is(err, mangos.ErrClosed) {
			return StateClosed
		}
		logger.Warn("aio: server context send failed, re-arming", log.Err(err))
		return StateRecv
	}
	return StateRecv
}

// Close releases the underlying mangos context, unblocking any in-flight
// Recv/Send with mangos.ErrClosed and driving Run's state machine to Closed.
func (l *ServerLoop) Close() error {
	return l.Context.Close()
}
