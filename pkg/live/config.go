package live

import (
	"log/slog"
	"time"
)

// Config controls session timeouts and limits.
type Config struct {
	// ReadTimeout is the maximum time to wait for a message from the
	// client before the connection is considered dead. It must be
	// longer than HeartbeatInterval, since pongs are what keep an idle
	// connection alive.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	WriteTimeout time.Duration

	// HandshakeTimeout is the maximum time for the hello exchange.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket
	// message in bytes.
	MaxMessageSize int64

	// MaxEventQueue is the size of the event channel buffer. Events
	// arriving while the buffer is full are dropped and reported to the
	// client as a queue-full error.
	MaxEventQueue int

	// Logger receives session logs. Defaults to slog.Default with a
	// component attribute.
	Logger *slog.Logger

	// OnSession, when set, is called with each session after its loops
	// start. Use it to hold a session reference for Dispatch-driven
	// updates.
	OnSession func(*Session)
}

// DefaultConfig returns the config used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
		MaxEventQueue:     256,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = def.HeartbeatInterval
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	if c.MaxEventQueue <= 0 {
		c.MaxEventQueue = def.MaxEventQueue
	}
	if c.Logger == nil {
		c.Logger = slog.Default().With("component", "live")
	}
	return c
}
