package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.nanomsg.org/mangos/v3/protocol/req"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"

	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/reqrep"
	"github.com/sage-x-project/nngmux/server"
	"github.com/sage-x-project/nngmux/transport"
)

type upperProcessor struct{}

func (upperProcessor) Process(_ context.Context, in []byte) ([]byte, error) {
	out := make([]byte, len(in))
	for i, b := range in {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		out[i] = b
	}
	return out, nil
}

func (upperProcessor) Destroy() {}

func TestSpawnServesOneRequest(t *testing.T) {
	url := "inproc://server-test-" + message.NewReqRepId().String()

	svc := reqrep.StartService[[]byte, []byte](reqrep.Config{ReqRepId: message.NewReqRepId()}, upperProcessor{})
	defer svc.Close()

	h, err := server.Spawn(nil, transport.ListenerConfig{URL: url, Parallelism: 2}, svc, nil, nil)
	require.NoError(t, err)
	defer h.StopAsync()

	require.False(t, h.StopSignalled())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.Ping(ctx))

	sock, err := req.NewSocket()
	require.NoError(t, err)
	defer sock.Close()
	require.NoError(t, sock.Dial(url))

	require.NoError(t, sock.Send([]byte("hello")))
	reply, err := sock.Recv()
	require.NoError(t, err)
	require.Equal(t, "HELLO", string(reply))

	h.StopAsync()
	require.NoError(t, h.AwaitShutdown(ctx))

	_, found := server.Lookup(h.ID())
	require.False(t, found)
}
