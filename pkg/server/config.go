package server

import (
	"net/http"
	"net/url"
	"time"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address. Default: "localhost:3000".
	Addr string

	Title string

	// AllowedOrigins lists origins allowed to open the op stream besides
	// the request's own host.
	AllowedOrigins []string

	// MetricsPath is where metrics are served when a registry is set.
	// Default: "/metrics".
	MetricsPath string

	// ReadTimeout is the maximum time to wait for a client message.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds a single WebSocket write. Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between heartbeat pings. It must be shorter
	// than ReadTimeout. Default: 30 seconds.
	PingInterval time.Duration

	// MaxMessageSize is the maximum size of a client message. Default: 64KB.
	MaxMessageSize int64

	// SendBuffer is the number of outgoing messages buffered per client.
	// A client that falls further behind is disconnected. Default: 256.
	SendBuffer int

	// ShutdownTimeout bounds graceful shutdown. Default: 10 seconds.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            "localhost:3000",
		Title:           "retain",
		MetricsPath:     "/metrics",
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024,
		SendBuffer:      256,
		ShutdownTimeout: 10 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.MetricsPath == "" {
		c.MetricsPath = d.MetricsPath
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = d.PingInterval
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendBuffer == 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// checkOrigin accepts requests without an Origin header, same-host origins,
// and the configured allow list.
func (c Config) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
