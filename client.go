package ftpc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/dconde/ftpc/internal/fileutil"
	"github.com/dconde/ftpc/internal/ratelimit"
)

// Client represents an FTP client connection.
type Client struct {
	// conn is the underlying network connection (control channel)
	conn net.Conn

	// reader is a buffered reader for the control channel
	reader *bufio.Reader

	// timeout is the timeout for operations
	timeout time.Duration

	// idleTimeout is the maximum time to wait before sending NOOP to keep
	// the connection alive. If zero, no automatic keep-alive is performed.
	idleTimeout time.Duration

	// logger is used for debug logging
	logger *slog.Logger

	// dialer is used to establish connections
	dialer *net.Dialer

	// host and port for the connection
	host string
	port string

	// connMode selects passive (PASV) or active (PORT) data connections
	connMode ConnectionMode

	// transferMode is the forced transfer mode when autoMode is false
	transferMode TransferMode

	// autoMode selects the transfer mode per file by filename heuristic
	autoMode bool

	// limiter throttles data-connection bandwidth when non-nil
	limiter *ratelimit.Limiter

	// currentType tracks the current transfer type to avoid redundant TYPE commands
	currentType string

	// mu protects concurrency-sensitive fields
	mu sync.Mutex

	// lastCommand tracks the time of the last command sent
	lastCommand time.Time

	// quitChan signals the keep-alive goroutine to stop
	quitChan chan struct{}

	// activeDataConn tracks the currently active data connection
	activeDataConn net.Conn
}

// Dial connects to an FTP server at the given address.
// The address should be in the form "host:port".
//
// Example:
//
//	client, err := ftpc.Dial("ftp.example.com:21")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Quit()
func Dial(addr string, options ...Option) (*Client, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	// Create the client with defaults
	c := &Client{
		host:     host,
		port:     port,
		timeout:  30 * time.Second,
		dialer:   &net.Dialer{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		connMode: Passive,
		autoMode: true,
	}

	// Apply options
	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// Set dialer timeout
	c.dialer.Timeout = c.timeout

	// Establish the connection
	if err := c.connect(); err != nil {
		return nil, err
	}

	// Initialize last command time
	c.lastCommand = time.Now()

	// Start keep-alive loop if enabled
	c.startKeepAlive()

	return c, nil
}

// connect establishes the control connection and reads the greeting.
func (c *Client) connect() error {
	addr := net.JoinHostPort(c.host, c.port)
	c.logger.Debug("connecting to ftp server", "addr", addr)

	conn, err := c.dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(c.conn)

	// Set read deadline for the greeting
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			c.conn.Close()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	// Read the greeting (220 response)
	reply, err := readReply(c.reader)
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to read greeting: %w", err)
	}

	c.logger.Debug("ftp greeting", "code", reply.Code, "message", reply.Message)

	if reply.Code != 220 {
		c.conn.Close()
		return &ProtocolError{Command: "CONNECT", Reply: reply}
	}

	return nil
}

// roundTrip writes one command to the control connection and reads the
// reply. It serializes concurrent callers and applies the configured
// deadlines. Server rejections are not errors at this level; callers
// decide which codes are acceptable.
func (c *Client) roundTrip(command string, args ...string) (Reply, error) {
	cmd := command
	for _, arg := range args {
		cmd += " " + arg
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastCommand = time.Now()

	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return Reply{}, fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	if _, err := fmt.Fprintf(c.conn, "%s\r\n", cmd); err != nil {
		return Reply{}, fmt.Errorf("failed to send command: %w", err)
	}

	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return Reply{}, fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	reply, err := readReply(c.reader)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to read reply: %w", err)
	}

	c.logger.Debug("ftp reply", "code", reply.Code, "message", reply.Message)

	return reply, nil
}

// sendCommand sends a command and returns the reply, whatever its code.
func (c *Client) sendCommand(command string, args ...string) (Reply, error) {
	return Invoke(c.logger, command, args, func() (Reply, error) {
		return c.roundTrip(command, args...)
	})
}

// expectCode sends a command and verifies the reply code matches.
func (c *Client) expectCode(expectedCode int, command string, args ...string) (Reply, error) {
	return Invoke(c.logger, command, args, func() (Reply, error) {
		reply, err := c.roundTrip(command, args...)
		if err != nil {
			return reply, err
		}
		if reply.Code != expectedCode {
			return reply, &ProtocolError{Command: command, Reply: reply}
		}
		return reply, nil
	})
}

// expect2xx sends a command and verifies the reply is in the 2xx range.
func (c *Client) expect2xx(command string, args ...string) (Reply, error) {
	return Invoke(c.logger, command, args, func() (Reply, error) {
		reply, err := c.roundTrip(command, args...)
		if err != nil {
			return reply, err
		}
		if !reply.Is2xx() {
			return reply, &ProtocolError{Command: command, Reply: reply}
		}
		return reply, nil
	})
}

// Login authenticates with the server.
func (c *Client) Login(username, password string) error {
	reply, err := c.sendCommand("USER", username)
	if err != nil {
		return err
	}

	// 230 means no password is required
	if reply.Code == 230 {
		return nil
	}

	if reply.Code != 331 {
		return &ProtocolError{Command: "USER", Reply: reply}
	}

	_, err = c.expectCode(230, "PASS", password)
	return err
}

// Quit closes the connection gracefully by sending the QUIT command.
// If a transfer is in progress, its data connection is closed first.
func (c *Client) Quit() error {
	if c.conn == nil {
		return nil
	}

	c.mu.Lock()
	// Stop keep-alive loop
	if c.quitChan != nil {
		close(c.quitChan)
		c.quitChan = nil
	}
	// Abort active transfer if any
	if c.activeDataConn != nil {
		c.activeDataConn.Close()
		c.activeDataConn = nil
	}
	c.mu.Unlock()

	// Send QUIT (ignore errors, we're closing anyway)
	_, _ = c.sendCommand("QUIT")

	return c.conn.Close()
}

// Noop sends a NOOP (no operation) command. Useful as a keepalive.
func (c *Client) Noop() error {
	_, err := c.expect2xx("NOOP")
	return err
}

// Quote sends a raw command to the server and returns the reply.
// This allows sending commands the client does not model explicitly.
//
// Example:
//
//	reply, err := client.Quote("SITE", "CHMOD", "755", "script.sh")
func (c *Client) Quote(command string, args ...string) (Reply, error) {
	return c.sendCommand(command, args...)
}

// ConnectionMode reports the configured data-connection mode.
func (c *Client) ConnectionMode() ConnectionMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connMode
}

// SetConnectionMode switches between passive (PASV) and active (PORT)
// data connections. Takes effect on the next data transfer.
func (c *Client) SetConnectionMode(mode ConnectionMode) {
	c.mu.Lock()
	c.connMode = mode
	c.mu.Unlock()
}

// SetTransferMode forces a transfer mode for all subsequent transfers,
// disabling per-file detection.
func (c *Client) SetTransferMode(mode TransferMode) {
	c.mu.Lock()
	c.transferMode = mode
	c.autoMode = false
	c.mu.Unlock()
}

// SetAutoTransferMode re-enables per-file transfer mode selection: binary
// for files the filename heuristic classifies as binary, ASCII otherwise.
func (c *Client) SetAutoTransferMode() {
	c.mu.Lock()
	c.autoMode = true
	c.mu.Unlock()
}

// transferModeFor picks the transfer mode for a path.
func (c *Client) transferModeFor(path string) TransferMode {
	c.mu.Lock()
	auto, forced := c.autoMode, c.transferMode
	c.mu.Unlock()

	if !auto {
		return forced
	}
	if fileutil.IsBinary(path) {
		return Binary
	}
	return ASCII
}

// setType issues the TYPE command, skipping it when the requested type
// is already in effect.
func (c *Client) setType(mode TransferMode) error {
	token := mode.Token()

	c.mu.Lock()
	current := c.currentType
	c.mu.Unlock()
	if current == token {
		c.logger.Debug("transfer type already set, skipping TYPE command", "type", token)
		return nil
	}

	if _, err := c.expectCode(200, "TYPE", token); err != nil {
		return err
	}

	c.mu.Lock()
	c.currentType = token
	c.mu.Unlock()
	return nil
}

// startKeepAlive starts a goroutine that sends NOOP commands when the
// connection has been idle for the configured idleTimeout.
func (c *Client) startKeepAlive() {
	if c.idleTimeout == 0 {
		return
	}

	// The goroutine keeps its own reference; Quit nils out the field.
	quit := make(chan struct{})
	c.quitChan = quit

	// Tick at half the idle timeout to be safe
	ticker := time.NewTicker(c.idleTimeout / 2)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				transferring := c.activeDataConn != nil
				last := c.lastCommand
				c.mu.Unlock()

				// Skip if a data transfer is in progress
				if transferring {
					continue
				}

				if time.Since(last) >= c.idleTimeout {
					c.logger.Debug("sending keep-alive NOOP")
					// Ignore errors (connection might be closed)
					_ = c.Noop()
				}
			case <-quit:
				return
			}
		}
	}()
}
