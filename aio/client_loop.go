package aio

import (
	"errors"

	"go.nanomsg.org/mangos/v3"

	"github.com/sage-x-project/nngmux/internal/log"
)

// ClientRequest is one unit of work handed to a borrowed client context: the
// request bytes plus the one-shot sink the caller is waiting on.
type ClientRequest struct {
	Body   []byte
	ReplyC chan ClientResult
}

// ClientResult is what a ClientLoop delivers back to the caller.
type ClientResult struct {
	Body []byte
	Err  error
}

// ClientLoop drives one AIO context on the client side: wait to be borrowed,
// send the request, recv the reply, deliver it, return to the pool.
// Any underlying transport error is mapped onto the RequestError taxonomy
// and the context is cancelled and re-armed.
type ClientLoop struct {
	Context mangos.Context
	Work    chan ClientRequest // capacity 1; fed by whoever borrowed this loop from the pool broker
	Return  chan *ClientLoop   // pushed back onto here after each exchange
	Logger  log.Logger
}

// Run processes work items until Work is closed (pool shutdown).
func (l *ClientLoop) Run() {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	for req := range l.Work {
		result := l.exchange(logger, req)
		select {
		case req.ReplyC <- result:
		default:
			logger.Warn("aio: client reply channel closed before delivery")
		}
		select {
		case l.Return <- l:
		default:
			// pool has shut down; nothing to return to.
		}
	}
}

func (l *ClientLoop) exchange(logger log.Logger, req ClientRequest) ClientResult {
	if len(req.Body) == 0 {
		return ClientResult{Err: ErrInvalidRequest}
	}

	if err := l.Context.Send(req.Body); err != nil {
		if errors.Is(err, mangos.ErrClosed) {
			return ClientResult{Err: ErrAioContextChannelDisconnected}
		}
		logger.Warn("aio: client send failed, re-arming", log.Err(err))
		return ClientResult{Err: ErrSendFailed}
	}

	body, err := l.Context.Recv()
	if err != nil {
		if errors.Is(err, mangos.ErrClosed) {
			return ClientResult{Err: ErrAioContextChannelDisconnected}
		}
		logger.Warn("aio: client recv failed, re-arming", log.Err(err))
		return ClientResult{Err: ErrRecvFailed}
	}
	if body == nil {
		return ClientResult{Err: ErrNoReplyMessage}
	}
	return ClientResult{Body: body}
}

// Close releases the underlying mangos context.
func (l *ClientLoop) Close() error {
	return l.Context.Close()
}
