package transport

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every override variable name, e.g.
// NNGMUX_LISTENER_URL, NNGMUX_DIALER_PARALLELISM.
const EnvPrefix = "NNGMUX_"

// Config is the top-level document a driver binary loads from YAML: one
// listener side and one dialer side, each with its own optional socket
// tuning.
type Config struct {
	Socket       *SocketConfig       `yaml:"socket,omitempty"`
	ClientSocket *ClientSocketConfig `yaml:"client_socket,omitempty"`
	Listener     ListenerConfig      `yaml:"listener"`
	Dialer       DialerConfig        `yaml:"dialer"`
}

// LoadFile reads and parses a Config from a YAML file at path, then applies
// environment overrides and normalization.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transport: read config %s: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a Config from raw YAML, then applies environment
// overrides and normalization.
func LoadBytes(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("transport: parse config: %w", err)
	}
	applyEnvOverrides(cfg)
	cfg.Listener = NormalizeListener(cfg.Listener)
	cfg.Dialer = NormalizeDialer(cfg.Dialer)
	if cfg.Socket != nil {
		cfg.Socket.Normalize()
	}
	if cfg.ClientSocket != nil {
		cfg.ClientSocket.Normalize()
	}
	return cfg, nil
}

// applyEnvOverrides lets NNGMUX_LISTENER_URL / NNGMUX_DIALER_URL /
// NNGMUX_LISTENER_PARALLELISM / NNGMUX_DIALER_PARALLELISM win over whatever
// the YAML document set, matching the highest-priority-wins rule driver
// binaries expect from their environment.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "LISTENER_URL"); v != "" {
		cfg.Listener.URL = v
	}
	if v := os.Getenv(EnvPrefix + "DIALER_URL"); v != "" {
		cfg.Dialer.URL = v
	}
	if v, ok := envInt(EnvPrefix + "LISTENER_PARALLELISM"); ok {
		cfg.Listener.Parallelism = v
	}
	if v, ok := envInt(EnvPrefix + "DIALER_PARALLELISM"); ok {
		cfg.Dialer.Parallelism = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
