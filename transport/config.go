// Package transport defines the external configuration contracts nngmux's
// server and client bind to: socket tuning, listener and dialer parameters,
// plus a YAML/env loader for the cmd/ driver binaries.
package transport

import (
	"runtime"
	"time"
)

// MaxSendBufferSize is the upper clamp applied to send_buffer_size.
const MaxSendBufferSize = 8192

// MaxSocketNameLen is the truncation limit for SocketConfig.SocketName.
const MaxSocketNameLen = 63

// SocketConfig carries the tuning knobs shared by server and client sockets.
type SocketConfig struct {
	RecvBufferSize int           `yaml:"recv_buffer_size" json:"recv_buffer_size"`
	SendBufferSize int           `yaml:"send_buffer_size" json:"send_buffer_size"`
	RecvMaxSize    int           `yaml:"recv_max_size" json:"recv_max_size"`
	RecvTimeout    time.Duration `yaml:"recv_timeout" json:"recv_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout" json:"send_timeout"`
	MaxTTL         int           `yaml:"max_ttl" json:"max_ttl"`
	SocketName     string        `yaml:"socket_name" json:"socket_name"`
	TCPNoDelay     bool          `yaml:"tcp_no_delay" json:"tcp_no_delay"`
	TCPKeepAlive   bool          `yaml:"tcp_keep_alive" json:"tcp_keep_alive"`
}

// Normalize applies the clamp/truncate rules in place and returns the
// receiver for chaining.
func (c *SocketConfig) Normalize() *SocketConfig {
	if c.SendBufferSize > MaxSendBufferSize {
		c.SendBufferSize = MaxSendBufferSize
	}
	if len(c.SocketName) > MaxSocketNameLen {
		c.SocketName = c.SocketName[:MaxSocketNameLen]
	}
	return c
}

// ClientSocketConfig adds the client-only reconnect/resend knobs.
type ClientSocketConfig struct {
	SocketConfig     `yaml:",inline"`
	ReconnectMinTime time.Duration `yaml:"reconnect_min_time" json:"reconnect_min_time"`
	ReconnectMaxTime time.Duration `yaml:"reconnect_max_time" json:"reconnect_max_time"`
	ResendTime       time.Duration `yaml:"resend_time" json:"resend_time"`
}

// ListenerConfig configures the server-side accept loop.
type ListenerConfig struct {
	URL         string `yaml:"url" json:"url"`
	RecvMaxSize int    `yaml:"recv_max_size" json:"recv_max_size"`
	NoDelay     bool   `yaml:"no_delay" json:"no_delay"`
	KeepAlive   bool   `yaml:"keep_alive" json:"keep_alive"`
	NonBlocking bool   `yaml:"non_blocking" json:"non_blocking"`
	Parallelism int    `yaml:"parallelism" json:"parallelism"`
}

// DefaultListenerParallelism is CPU count + 1.
func DefaultListenerParallelism() int { return runtime.NumCPU() + 1 }

// NormalizeListener fills in the default parallelism if unset.
func NormalizeListener(c ListenerConfig) ListenerConfig {
	if c.Parallelism <= 0 {
		c.Parallelism = DefaultListenerParallelism()
	}
	return c
}

// DialerConfig configures the client-side dial loop.
type DialerConfig struct {
	URL              string        `yaml:"url" json:"url"`
	Parallelism      int           `yaml:"parallelism" json:"parallelism"`
	RecvMaxSize      int           `yaml:"recv_max_size" json:"recv_max_size"`
	NoDelay          bool          `yaml:"no_delay" json:"no_delay"`
	KeepAlive        bool          `yaml:"keep_alive" json:"keep_alive"`
	ReconnectMinTime time.Duration `yaml:"reconnect_min_time" json:"reconnect_min_time"`
	ReconnectMaxTime time.Duration `yaml:"reconnect_max_time" json:"reconnect_max_time"`
}

// DefaultDialerParallelism is CPU count.
func DefaultDialerParallelism() int { return runtime.NumCPU() }

// NormalizeDialer fills in the default parallelism if unset.
func NormalizeDialer(c DialerConfig) DialerConfig {
	if c.Parallelism <= 0 {
		c.Parallelism = DefaultDialerParallelism()
	}
	return c
}
