package reqrep_test

import (
	"context"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/sage-x-project/nngmux/internal/xmetrics"
	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/reqrep"
	"github.com/stretchr/testify/require"
)

type echoProcessor struct {
	destroyed chan struct{}
}

func newEchoProcessor() *echoProcessor { return &echoProcessor{destroyed: make(chan struct{})} }

func (p *echoProcessor) Process(_ context.Context, req string) (string, error) {
	return req, nil
}
func (p *echoProcessor) Destroy() { close(p.destroyed) }

func TestSendRecvEcho(t *testing.T) {
	id := message.NewReqRepId()
	proc := newEchoProcessor()
	rr := reqrep.StartService[string, string](reqrep.Config{ReqRepId: id, ChanBufSize: 4}, proc)
	defer rr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	recv, err := rr.Send(ctx, "hello")
	require.NoError(t, err)
	rep, err := recv.Recv(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", rep)
}

func TestSendAfterCloseFails(t *testing.T) {
	id := message.NewReqRepId()
	proc := newEchoProcessor()
	rr := reqrep.StartService[string, string](reqrep.Config{ReqRepId: id, ChanBufSize: 1}, proc)
	rr.Close()

	<-proc.destroyed

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := rr.Send(ctx, "too late")
	require.ErrorIs(t, err, reqrep.ErrDisconnected)
}

func TestMetricsCoverage(t *testing.T) {
	id := message.NewReqRepId()
	proc := newEchoProcessor()
	rr := reqrep.StartService[string, string](reqrep.Config{ReqRepId: id, ChanBufSize: 10}, proc)
	defer rr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	const n = 10
	for i := 0; i < n; i++ {
		recv, err := rr.Send(ctx, "ping")
		require.NoError(t, err)
		_, err = recv.Recv(ctx)
		require.NoError(t, err)
	}

	metricFamilies, err := xmetrics.Registry.Gather()
	require.NoError(t, err)

	var gotTimer, gotInstances, gotSend bool
	var sampleCount uint64
	for _, mf := range metricFamilies {
		for _, m := range mf.GetMetric() {
			if !hasLabel(m, "reqrep_id", id.String()) {
				continue
			}
			switch mf.GetName() {
			case "nngmux_reqrep_process_timer_seconds":
				gotTimer = true
				sampleCount = m.GetHistogram().GetSampleCount()
			case "nngmux_reqrep_service_instance_count":
				gotInstances = true
			case "nngmux_reqrep_send_total":
				gotSend = true
			}
		}
	}

	require.True(t, gotTimer)
	require.True(t, gotInstances)
	require.True(t, gotSend)
	require.Equal(t, uint64(n), sampleCount)
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
