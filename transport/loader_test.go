package transport_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/nngmux/transport"
)

const sampleYAML = `
listener:
  url: "tcp://0.0.0.0:40899"
dialer:
  url: "tcp://127.0.0.1:40899"
  parallelism: 3
`

func TestLoadBytesAppliesDefaultsAndClamps(t *testing.T) {
	cfg, err := transport.LoadBytes([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "tcp://0.0.0.0:40899", cfg.Listener.URL)
	require.Equal(t, transport.DefaultListenerParallelism(), cfg.Listener.Parallelism)
	require.Equal(t, 3, cfg.Dialer.Parallelism)
}

func TestLoadBytesEnvOverride(t *testing.T) {
	t.Setenv(transport.EnvPrefix+"DIALER_URL", "tcp://127.0.0.1:50000")
	cfg, err := transport.LoadBytes([]byte(sampleYAML))
	require.NoError(t, err)
	require.Equal(t, "tcp://127.0.0.1:50000", cfg.Dialer.URL)
}

func TestSocketConfigNormalizeClamps(t *testing.T) {
	sc := transport.SocketConfig{SendBufferSize: 1 << 20, SocketName: string(make([]byte, 100))}
	sc.Normalize()
	require.Equal(t, transport.MaxSendBufferSize, sc.SendBufferSize)
	require.Len(t, sc.SocketName, transport.MaxSocketNameLen)
}
