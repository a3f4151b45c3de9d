// Package reqrep implements the in-process, channel-based request/reply
// service harness: a handle sharing a bounded async channel with a single
// processor task, with per-ReqRepId timing and instance metrics.
package reqrep

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sage-x-project/nngmux/internal/log"
	"github.com/sage-x-project/nngmux/internal/xmetrics"
	"github.com/sage-x-project/nngmux/message"
)

// ErrDisconnected is returned by Send when the processor task has terminated.
var ErrDisconnected = errors.New("reqrep: channel send failed, processor disconnected")

// Processor is the single-method-pair contract backing a ReqRep service.
type Processor[Req any, Rep any] interface {
	// Process computes the reply for req.
	Process(ctx context.Context, req Req) (Rep, error)
	// Destroy is invoked exactly once when the processor task exits.
	Destroy()
}

// reqRepMessage is the envelope the backend task consumes: the request
// payload (taken exactly once) plus a one-shot reply sink.
type reqRepMessage[Req any, Rep any] struct {
	id      message.MessageId
	req     *Req
	replyC  chan replyResult[Rep]
	closedC chan struct{}
}

type replyResult[Rep any] struct {
	rep Rep
	err error
}

// Config configures a ReqRep service instance.
type Config struct {
	ReqRepId     message.ReqRepId
	ChanBufSize  int
	TimerBuckets []float64 // informative only; the shared histogram owns its own bucket layout.
}

// ReqRep is the frontend handle shared by every caller of a service instance.
type ReqRep[Req any, Rep any] struct {
	id   message.ReqRepId
	ch   chan *reqRepMessage[Req, Rep]
	done chan struct{}
}

// ReplyReceiver resolves to the reply once the processor has produced it.
type ReplyReceiver[Rep any] struct {
	c        chan replyResult[Rep]
	closedC  chan struct{}
	closeOne sync.Once
	closed   bool
}

// Recv blocks until the reply arrives, ctx is done, or the receiver is closed.
func (r *ReplyReceiver[Rep]) Recv(ctx context.Context) (Rep, error) {
	var zero Rep
	if r.closed {
		return zero, errors.New("reqrep: reply receiver closed")
	}
	select {
	case res, ok := <-r.c:
		if !ok {
			return zero, errors.New("reqrep: reply channel closed without a value")
		}
		return res.rep, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close is explicit and idempotent. It tells the backend no one is waiting
// for the reply any more; the backend's attempt to deliver it then logs a
// warning instead of blocking.
func (r *ReplyReceiver[Rep]) Close() {
	r.closeOne.Do(func() {
		r.closed = true
		close(r.closedC)
	})
}

// StartService starts processor on a dedicated goroutine and returns the
// frontend handle. Metrics are registered once per ReqRepId and reused for
// subsequent instances sharing that id (the Prometheus *Vec collectors in
// internal/xmetrics are process-wide singletons; WithLabelValues just looks
// up or creates the per-id time series).
func StartService[Req any, Rep any](cfg Config, processor Processor[Req, Rep]) *ReqRep[Req, Rep] {
	if cfg.ChanBufSize <= 0 {
		cfg.ChanBufSize = 1
	}
	rr := &ReqRep[Req, Rep]{
		id:   cfg.ReqRepId,
		ch:   make(chan *reqRepMessage[Req, Rep], cfg.ChanBufSize),
		done: make(chan struct{}),
	}
	go rr.backend(processor)
	return rr
}

// ID returns the ReqRepId this service instance was started with.
func (r *ReqRep[Req, Rep]) ID() message.ReqRepId { return r.id }

// Send enqueues req with a fresh MessageId and one-shot reply sink, returning
// a handle that resolves to the reply.
func (r *ReqRep[Req, Rep]) Send(ctx context.Context, req Req) (*ReplyReceiver[Rep], error) {
	xmetrics.ReqRepSendCounter.WithLabelValues(r.id.String()).Inc()

	msg := &reqRepMessage[Req, Rep]{
		id:      message.NewMessageId(),
		req:     &req,
		replyC:  make(chan replyResult[Rep], 1),
		closedC: make(chan struct{}),
	}
	select {
	case <-r.done:
		return nil, ErrDisconnected
	default:
	}
	select {
	case r.ch <- msg:
		return &ReplyReceiver[Rep]{c: msg.replyC, closedC: msg.closedC}, nil
	case <-r.done:
		return nil, ErrDisconnected
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close signals the backend task to stop accepting new work. It does not wait
// for in-flight requests to finish.
func (r *ReqRep[Req, Rep]) Close() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

func (r *ReqRep[Req, Rep]) backend(processor Processor[Req, Rep]) {
	idLabel := r.id.String()
	xmetrics.ReqRepServiceInstanceCount.WithLabelValues(idLabel).Inc()
	defer xmetrics.ReqRepServiceInstanceCount.WithLabelValues(idLabel).Dec()
	defer processor.Destroy()

	for {
		select {
		case msg, ok := <-r.ch:
			if !ok {
				return
			}
			r.handle(processor, idLabel, msg)
		case <-r.done:
			return
		}
	}
}

func (r *ReqRep[Req, Rep]) handle(processor Processor[Req, Rep], idLabel string, msg *reqRepMessage[Req, Rep]) {
	req := *msg.req // consume the Option slot exactly once
	msg.req = nil

	start := time.Now()
	rep, err := processor.Process(context.Background(), req)
	xmetrics.ReqRepProcessTimer.WithLabelValues(idLabel).Observe(time.Since(start).Seconds())

	select {
	case <-msg.closedC:
		log.Default().Warn("reqrep: reply receiver dropped before send", log.String("reqrep_id", idLabel), log.String("message_id", msg.id.String()))
	default:
		msg.replyC <- replyResult[Rep]{rep: rep, err: err} // buffered for exactly this one send
	}
}
