// Package server turns a started ReqRep service into a listening
// scalability-protocol endpoint: a REP-role socket, a pool of AIO contexts
// each running the server event loop, and a supervisor goroutine exposing
// ping/stop/await-shutdown to callers.
package server

import (
	"context"
	"fmt"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/rep"

	"github.com/sage-x-project/nngmux/aio"
	"github.com/sage-x-project/nngmux/internal/log"
	"github.com/sage-x-project/nngmux/internal/xmetrics"
	"github.com/sage-x-project/nngmux/reqrep"
	"github.com/sage-x-project/nngmux/transport"
	"github.com/sage-x-project/nngmux/ulid"
)

// Spawn brings up a REP-role listener for reqRepService and registers the
// resulting Handle in the process-wide registry.
//
//  1. create the REP socket and apply socketCfg, if given
//  2. open listenerCfg.Parallelism (or CPU+1) AIO contexts, each paired with
//     its own aio.ServerLoop wrapping reqRepService
//  3. start listening on listenerCfg.URL
//  4. spawn a supervisor goroutine handling ping/stop
//  5. register the Handle under a fresh ULID
func Spawn(
	socketCfg *transport.SocketConfig,
	listenerCfg transport.ListenerConfig,
	reqRepService *reqrep.ReqRep[[]byte, []byte],
	executor aio.Executor,
	logger log.Logger,
) (*Handle, error) {
	if logger == nil {
		logger = log.Default()
	}
	listenerCfg = transport.NormalizeListener(listenerCfg)

	sock, err := rep.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("server: create socket: %w", err)
	}

	if socketCfg != nil {
		socketCfg.Normalize()
		applySocketOptions(sock, *socketCfg)
	}

	id := ulid.New()
	idLabel := id.String()

	sock.SetPipeEventHook(func(ev mangos.PipeEvent, _ mangos.Pipe) {
		switch ev {
		case mangos.PipeEventAttaching:
			xmetrics.ServerInitiateConnCount.WithLabelValues(idLabel).Inc()
		case mangos.PipeEventAttached:
			xmetrics.ServerActiveConnCount.WithLabelValues(idLabel).Inc()
			xmetrics.ServerTotalConnCount.WithLabelValues(idLabel).Inc()
		case mangos.PipeEventDetached:
			xmetrics.ServerActiveConnCount.WithLabelValues(idLabel).Dec()
		}
	})

	loops := make([]*aio.ServerLoop, 0, listenerCfg.Parallelism)
	for i := 0; i < listenerCfg.Parallelism; i++ {
		octx, err := sock.OpenContext()
		if err != nil {
			closeLoops(loops)
			sock.Close()
			return nil, fmt.Errorf("server: open context %d: %w", i, err)
		}
		loops = append(loops, &aio.ServerLoop{
			Context: octx,
			Service: reqRepService,
			Logger:  logger,
		})
	}

	if err := sock.Listen(listenerCfg.URL); err != nil {
		closeLoops(loops)
		sock.Close()
		return nil, fmt.Errorf("server: listen on %s: %w", listenerCfg.URL, err)
	}

	h := &Handle{
		id:       id,
		reqRepID: reqRepService.ID(),
		pingC:    make(chan chan struct{}),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	for _, l := range loops {
		l := l
		executor.Run(func() { l.Run(workerCtx) })
	}

	executor.Run(func() {
		supervise(h, sock, cancel, loops, logger)
	})

	register(h)
	return h, nil
}

func supervise(h *Handle, sock mangos.Socket, cancel context.CancelFunc, loops []*aio.ServerLoop, logger log.Logger) {
	for {
		select {
		case reply := <-h.pingC:
			close(reply)
		case <-h.done:
			cancel()
			closeLoops(loops)
			if err := sock.Close(); err != nil {
				logger.Warn("server: socket close failed", log.Err(err))
			}
			unregister(h)
			close(h.stopped)
			return
		}
	}
}

func closeLoops(loops []*aio.ServerLoop) {
	for _, l := range loops {
		if l == nil || l.Context == nil {
			continue
		}
		_ = l.Close()
	}
}

func applySocketOptions(sock mangos.Socket, cfg transport.SocketConfig) {
	if cfg.RecvMaxSize > 0 {
		_ = sock.SetOption(mangos.OptionMaxRecvSize, cfg.RecvMaxSize)
	}
	if cfg.RecvTimeout > 0 {
		_ = sock.SetOption(mangos.OptionRecvDeadline, cfg.RecvTimeout)
	}
	if cfg.SendTimeout > 0 {
		_ = sock.SetOption(mangos.OptionSendDeadline, cfg.SendTimeout)
	}
	if cfg.MaxTTL > 0 {
		_ = sock.SetOption(mangos.OptionTTL, cfg.MaxTTL)
	}
}
