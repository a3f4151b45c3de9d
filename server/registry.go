package server

import (
	"sync"

	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/ulid"
)

var (
	registryMu sync.RWMutex
	byID       = make(map[ulid.ID]*Handle)
	byReqRepID = make(map[message.ReqRepId][]*Handle)
)

func register(h *Handle) {
	registryMu.Lock()
	defer registryMu.Unlock()
	byID[h.id] = h
	byReqRepID[h.reqRepID] = append(byReqRepID[h.reqRepID], h)
}

func unregister(h *Handle) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(byID, h.id)
	peers := byReqRepID[h.reqRepID]
	for i, p := range peers {
		if p == h {
			byReqRepID[h.reqRepID] = append(peers[:i], peers[i+1:]...)
			break
		}
	}
	if len(byReqRepID[h.reqRepID]) == 0 {
		delete(byReqRepID, h.reqRepID)
	}
}

// Lookup returns the running server handle registered under id, if any.
func Lookup(id ulid.ID) (*Handle, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	h, ok := byID[id]
	return h, ok
}

// LookupByReqRepId returns every server handle currently serving reqRepID.
func LookupByReqRepId(reqRepID message.ReqRepId) []*Handle {
	registryMu.RLock()
	defer registryMu.RUnlock()
	peers := byReqRepID[reqRepID]
	out := make([]*Handle, len(peers))
	copy(out, peers)
	return out
}

// List returns every server handle currently registered.
func List() []*Handle {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Handle, 0, len(byID))
	for _, h := range byID {
		out = append(out, h)
	}
	return out
}
