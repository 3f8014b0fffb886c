package ftpc

import (
	"log/slog"
	"net"
	"time"

	"github.com/dconde/ftpc/internal/ratelimit"
)

// Option is a functional option for configuring an FTP client.
type Option func(*Client) error

// WithTimeout sets the timeout for connection and operations.
// This applies to both the initial connection and subsequent read/write
// operations on the control and data channels.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.timeout = timeout
		return nil
	}
}

// WithIdleTimeout sets the maximum idle time before a NOOP keep-alive is
// sent automatically, preventing the server from closing an idle
// connection. Set to 0 (the default) to disable keep-alive.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.idleTimeout = timeout
		return nil
	}
}

// WithLogger enables debug logging using the provided logger.
// All FTP commands and replies are logged at debug level.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	client, _ := ftpc.Dial("ftp.example.com:21", ftpc.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithDialer sets a custom net.Dialer for establishing connections.
// This can be used to configure source addresses, keep-alive settings, etc.
func WithDialer(dialer *net.Dialer) Option {
	return func(c *Client) error {
		c.dialer = dialer
		return nil
	}
}

// WithConnectionMode selects active (PORT) or passive (PASV) data
// connections. Passive is the default and works through most NATs and
// firewalls; active mode is mainly useful when the server cannot accept
// inbound data connections.
func WithConnectionMode(mode ConnectionMode) Option {
	return func(c *Client) error {
		c.connMode = mode
		return nil
	}
}

// WithTransferMode forces a transfer mode (ASCII or Binary) for all
// transfers. Without this option the mode is chosen per file: binary
// for files the filename heuristic classifies as binary, ASCII otherwise.
func WithTransferMode(mode TransferMode) Option {
	return func(c *Client) error {
		c.transferMode = mode
		c.autoMode = false
		return nil
	}
}

// WithRateLimit limits data-connection throughput to the given number
// of bytes per second. Zero or negative disables limiting.
func WithRateLimit(bytesPerSecond int64) Option {
	return func(c *Client) error {
		c.limiter = ratelimit.New(bytesPerSecond)
		return nil
	}
}
