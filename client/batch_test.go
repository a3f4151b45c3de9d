package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"

	"github.com/sage-x-project/nngmux/client"
	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/reqrep"
	"github.com/sage-x-project/nngmux/server"
	"github.com/sage-x-project/nngmux/transport"
)

func TestSendBatchFansOutConcurrently(t *testing.T) {
	url := "inproc://client-batch-" + message.NewReqRepId().String()
	reqRepID := message.NewReqRepId()

	svc := reqrep.StartService[[]byte, []byte](reqrep.Config{ReqRepId: reqRepID}, echoProcessor{})
	defer svc.Close()

	srv, err := server.Spawn(nil, transport.ListenerConfig{URL: url, Parallelism: 4}, svc, nil, nil)
	require.NoError(t, err)
	defer srv.StopAsync()

	cli, err := client.RegisterClient(
		reqrep.Config{ReqRepId: message.NewReqRepId()},
		nil,
		transport.DialerConfig{URL: url, Parallelism: 4},
		nil,
	)
	require.NoError(t, err)
	defer client.UnregisterClient(cli.ID())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reqs := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	replies, err := client.SendBatch(ctx, cli, reqs)
	require.NoError(t, err)
	for i, r := range reqs {
		require.Equal(t, r, replies[i])
	}
}
