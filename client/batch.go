package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sage-x-project/nngmux/reqrep"
)

// SendBatch dispatches every request in reqs concurrently over rr and
// collects the replies in the same order, using one goroutine per request.
// Only the enqueueing is concurrent: rr's single processor task handles the
// requests one at a time. The first error cancels the
// group and is returned; replies for requests that never got a chance to
// run are left as nil.
func SendBatch(ctx context.Context, rr *reqrep.ReqRep[[]byte, []byte], reqs [][]byte) ([][]byte, error) {
	replies := make([][]byte, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			recv, err := rr.Send(gctx, req)
			if err != nil {
				return err
			}
			reply, err := recv.Recv(gctx)
			if err != nil {
				return err
			}
			replies[i] = reply
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return replies, err
	}
	return replies, nil
}
