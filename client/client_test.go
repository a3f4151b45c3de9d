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

type echoProcessor struct{}

func (echoProcessor) Process(_ context.Context, in []byte) ([]byte, error) { return in, nil }
func (echoProcessor) Destroy()                                             {}

func TestRegisterClientRoundTrip(t *testing.T) {
	url := "inproc://client-test-" + message.NewReqRepId().String()
	reqRepID := message.NewReqRepId()

	svc := reqrep.StartService[[]byte, []byte](reqrep.Config{ReqRepId: reqRepID}, echoProcessor{})
	defer svc.Close()

	srv, err := server.Spawn(nil, transport.ListenerConfig{URL: url, Parallelism: 2}, svc, nil, nil)
	require.NoError(t, err)
	defer srv.StopAsync()

	cli, err := client.RegisterClient(
		reqrep.Config{ReqRepId: message.NewReqRepId()},
		nil,
		transport.DialerConfig{URL: url, Parallelism: 2},
		nil,
	)
	require.NoError(t, err)
	defer client.UnregisterClient(cli.ID())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	recv, err := cli.Send(ctx, []byte("ping"))
	require.NoError(t, err)
	reply, err := recv.Recv(ctx)
	require.NoError(t, err)
	require.Equal(t, "ping", string(reply))
}

func TestRegisterClientDedupesById(t *testing.T) {
	id := message.NewReqRepId()
	url := "inproc://client-dedupe-" + id.String()

	svc := reqrep.StartService[[]byte, []byte](reqrep.Config{ReqRepId: message.NewReqRepId()}, echoProcessor{})
	defer svc.Close()

	srv, err := server.Spawn(nil, transport.ListenerConfig{URL: url, Parallelism: 1}, svc, nil, nil)
	require.NoError(t, err)
	defer srv.StopAsync()

	c1, err := client.RegisterClient(reqrep.Config{ReqRepId: id}, nil, transport.DialerConfig{URL: url, Parallelism: 1}, nil)
	require.NoError(t, err)
	defer client.UnregisterClient(id)

	c2, err := client.RegisterClient(reqrep.Config{ReqRepId: id}, nil, transport.DialerConfig{URL: url, Parallelism: 1}, nil)
	require.NoError(t, err)

	require.Same(t, c1, c2)
}
