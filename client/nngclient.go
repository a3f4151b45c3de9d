package client

import (
	"context"
	"fmt"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/req"

	"github.com/sage-x-project/nngmux/aio"
	"github.com/sage-x-project/nngmux/internal/log"
	"github.com/sage-x-project/nngmux/transport"
	"github.com/sage-x-project/nngmux/ulid"
)

// nngClient is a reqrep.Processor[[]byte, []byte] backed by a pool of AIO
// contexts dialed against one endpoint. Process borrows an idle context from
// the broker, drives one request/reply exchange on it, and returns it to the
// pool; Destroy tears everything down in dialer -> socket -> broker order.
type nngClient struct {
	id     ulid.ID
	socket mangos.Socket
	dialer mangos.Dialer
	loops  []*aio.ClientLoop

	borrowC chan chan *aio.ClientLoop
	stopC   chan struct{}
	logger  log.Logger
}

func newNngClient(socketCfg *transport.ClientSocketConfig, dialerCfg transport.DialerConfig, executor aio.Executor) (*nngClient, error) {
	dialerCfg = transport.NormalizeDialer(dialerCfg)
	logger := log.Default()

	sock, err := req.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("client: create socket: %w", err)
	}
	if socketCfg != nil {
		socketCfg.Normalize()
		applyClientSocketOptions(sock, *socketCfg)
	}

	dialer, err := sock.NewDialer(dialerCfg.URL, nil)
	if err != nil {
		sock.Close()
		return nil, fmt.Errorf("client: create dialer for %s: %w", dialerCfg.URL, err)
	}
	if err := dialer.Dial(); err != nil {
		sock.Close()
		return nil, fmt.Errorf("client: dial %s: %w", dialerCfg.URL, err)
	}

	returnC := make(chan *aio.ClientLoop, dialerCfg.Parallelism)
	loops := make([]*aio.ClientLoop, 0, dialerCfg.Parallelism)
	for i := 0; i < dialerCfg.Parallelism; i++ {
		octx, err := sock.OpenContext()
		if err != nil {
			closeLoops(loops)
			dialer.Close()
			sock.Close()
			return nil, fmt.Errorf("client: open context %d: %w", i, err)
		}
		loop := &aio.ClientLoop{
			Context: octx,
			Work:    make(chan aio.ClientRequest, 1),
			Return:  returnC,
			Logger:  logger,
		}
		loops = append(loops, loop)
		returnC <- loop
		executor.Run(loop.Run)
	}

	nc := &nngClient{
		id:      ulid.New(),
		socket:  sock,
		dialer:  dialer,
		loops:   loops,
		borrowC: make(chan chan *aio.ClientLoop),
		stopC:   make(chan struct{}),
		logger:  logger,
	}
	executor.Run(func() { nc.broker(returnC) })
	return nc, nil
}

func (c *nngClient) broker(returnC chan *aio.ClientLoop) {
	for {
		select {
		case reply := <-c.borrowC:
			select {
			case loop := <-returnC:
				reply <- loop
			case <-c.stopC:
				close(reply)
				drainReturns(returnC, c.loops)
				return
			}
		case <-c.stopC:
			drainReturns(returnC, c.loops)
			return
		}
	}
}

func drainReturns(returnC chan *aio.ClientLoop, loops []*aio.ClientLoop) {
	for range loops {
		select {
		case loop := <-returnC:
			close(loop.Work)
		default:
		}
	}
}

// Process borrows an idle AIO context, runs one request/reply exchange on
// it, and returns it to the pool before resolving.
func (c *nngClient) Process(ctx context.Context, req []byte) ([]byte, error) {
	reply := make(chan *aio.ClientLoop)
	select {
	case c.borrowC <- reply:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.stopC:
		return nil, aio.ErrContextPoolChannelDisconnected
	}

	loop, ok := <-reply
	if !ok {
		return nil, aio.ErrContextPoolChannelDisconnected
	}

	resultC := make(chan aio.ClientResult, 1)
	select {
	case loop.Work <- aio.ClientRequest{Body: req, ReplyC: resultC}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case result := <-resultC:
		return result.Body, result.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Destroy releases the dialer, socket, and broker in that order, per client
// teardown semantics: stop accepting new dials before tearing down the
// contexts those dials created.
func (c *nngClient) Destroy() {
	if err := c.dialer.Close(); err != nil {
		c.logger.Warn("client: dialer close failed", log.Err(err))
	}
	closeLoops(c.loops)
	if err := c.socket.Close(); err != nil {
		c.logger.Warn("client: socket close failed", log.Err(err))
	}
	close(c.stopC)
}

func closeLoops(loops []*aio.ClientLoop) {
	for _, l := range loops {
		if l == nil || l.Context == nil {
			continue
		}
		_ = l.Close()
	}
}

func applyClientSocketOptions(sock mangos.Socket, cfg transport.ClientSocketConfig) {
	if cfg.RecvMaxSize > 0 {
		_ = sock.SetOption(mangos.OptionMaxRecvSize, cfg.RecvMaxSize)
	}
	if cfg.RecvTimeout > 0 {
		_ = sock.SetOption(mangos.OptionRecvDeadline, cfg.RecvTimeout)
	}
	if cfg.SendTimeout > 0 {
		_ = sock.SetOption(mangos.OptionSendDeadline, cfg.SendTimeout)
	}
	if cfg.ReconnectMinTime > 0 {
		_ = sock.SetOption(mangos.OptionReconnectTime, cfg.ReconnectMinTime)
	}
	if cfg.ReconnectMaxTime > 0 {
		_ = sock.SetOption(mangos.OptionMaxReconnectTime, cfg.ReconnectMaxTime)
	}
}
