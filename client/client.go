// Package client turns a dial target into a registered ReqRep frontend:
// a REQ-role socket, a pool of AIO contexts borrowed round-robin through a
// broker goroutine, and a processor that forwards raw bytes over the wire.
package client

import (
	"sync"

	"github.com/sage-x-project/nngmux/aio"
	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/reqrep"
	"github.com/sage-x-project/nngmux/transport"
)

var (
	registryMu sync.Mutex
	clients    = make(map[message.ReqRepId]*registeredClient)
)

type registeredClient struct {
	reqRep *reqrep.ReqRep[[]byte, []byte]
	nng    *nngClient
}

// RegisterClient returns the existing client for cfg.ReqRepId if one is
// already registered; otherwise it dials dialerCfg and starts a new one.
func RegisterClient(
	cfg reqrep.Config,
	socketCfg *transport.ClientSocketConfig,
	dialerCfg transport.DialerConfig,
	executor aio.Executor,
) (*reqrep.ReqRep[[]byte, []byte], error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := clients[cfg.ReqRepId]; ok {
		return existing.reqRep, nil
	}

	nc, err := newNngClient(socketCfg, dialerCfg, executor)
	if err != nil {
		return nil, err
	}

	rr := reqrep.StartService[[]byte, []byte](cfg, nc)
	clients[cfg.ReqRepId] = &registeredClient{reqRep: rr, nng: nc}
	return rr, nil
}

// UnregisterClient removes reqRepID from the registry and releases its
// transport resources. It is a no-op if reqRepID was never registered.
func UnregisterClient(reqRepID message.ReqRepId) {
	registryMu.Lock()
	rc, ok := clients[reqRepID]
	if ok {
		delete(clients, reqRepID)
	}
	registryMu.Unlock()

	if ok {
		rc.reqRep.Close()
	}
}

// Lookup returns the client registered under reqRepID, if any.
func Lookup(reqRepID message.ReqRepId) (*reqrep.ReqRep[[]byte, []byte], bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	rc, ok := clients[reqRepID]
	if !ok {
		return nil, false
	}
	return rc.reqRep, true
}

// RegisteredIds returns every ReqRepId currently registered.
func RegisteredIds() []message.ReqRepId {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]message.ReqRepId, 0, len(clients))
	for id := range clients {
		out = append(out, id)
	}
	return out
}
