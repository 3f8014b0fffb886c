package ftpc

import (
	"fmt"
	"net"
	"time"
)

// openDataConn opens a data connection in the configured mode.
func (c *Client) openDataConn() (net.Conn, error) {
	if c.ConnectionMode() == Active {
		return c.openActiveDataConn()
	}
	return c.openPassiveDataConn()
}

// openPassiveDataConn asks the server for a data address with PASV and
// connects to it.
func (c *Client) openPassiveDataConn() (net.Conn, error) {
	reply, err := c.expect2xx("PASV")
	if err != nil {
		return nil, err
	}

	addr, err := ParsePassiveAddress(reply.Message)
	if err != nil {
		return nil, err
	}

	// Servers behind NAT sometimes advertise 0.0.0.0; fall back to the
	// control connection host.
	if addr.Host == "0.0.0.0" {
		addr.Host = c.host
	}

	dataConn, err := c.dialer.Dial("tcp", addr.String())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to data port: %w", err)
	}

	if c.timeout > 0 {
		return &timedConn{Conn: dataConn, timeout: c.timeout}, nil
	}
	return dataConn, nil
}

// openActiveDataConn opens a local listener and instructs the server to
// connect to it with PORT.
func (c *Client) openActiveDataConn() (net.Conn, error) {
	// Listen on the same interface as the control connection
	localAddr := c.conn.LocalAddr().String()
	host, _, err := net.SplitHostPort(localAddr)
	if err != nil {
		host = "127.0.0.1" // Fallback
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	listenHost, listenPort, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		listener.Close()
		return nil, err
	}
	var port int
	if _, err := fmt.Sscanf(listenPort, "%d", &port); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to parse listener port: %w", err)
	}

	if _, err := c.expect2xx("PORT", BuildPortArgument(listenHost, port)); err != nil {
		listener.Close()
		return nil, err
	}

	// The server connects only after the transfer command is sent, so
	// return a wrapper that accepts lazily on first use.
	return &activeDataConn{listener: listener, timeout: c.timeout}, nil
}

// activeDataConn wraps a listener for active-mode connections.
type activeDataConn struct {
	listener net.Listener
	conn     net.Conn
	timeout  time.Duration
}

func (a *activeDataConn) accept() error {
	if a.timeout > 0 {
		if l, ok := a.listener.(*net.TCPListener); ok {
			_ = l.SetDeadline(time.Now().Add(a.timeout))
		}
	}
	conn, err := a.listener.Accept()
	if err != nil {
		return err
	}
	a.conn = conn
	return nil
}

func (a *activeDataConn) Read(p []byte) (int, error) {
	if a.conn == nil {
		if err := a.accept(); err != nil {
			return 0, err
		}
	}
	if a.timeout > 0 {
		_ = a.conn.SetReadDeadline(time.Now().Add(a.timeout))
	}
	return a.conn.Read(p)
}

func (a *activeDataConn) Write(p []byte) (int, error) {
	if a.conn == nil {
		if err := a.accept(); err != nil {
			return 0, err
		}
	}
	if a.timeout > 0 {
		_ = a.conn.SetWriteDeadline(time.Now().Add(a.timeout))
	}
	return a.conn.Write(p)
}

func (a *activeDataConn) Close() error {
	var err1, err2 error
	if a.conn != nil {
		err1 = a.conn.Close()
	}
	if a.listener != nil {
		err2 = a.listener.Close()
	}
	if err1 != nil {
		return err1
	}
	return err2
}

func (a *activeDataConn) LocalAddr() net.Addr {
	if a.conn != nil {
		return a.conn.LocalAddr()
	}
	return a.listener.Addr()
}

func (a *activeDataConn) RemoteAddr() net.Addr {
	if a.conn != nil {
		return a.conn.RemoteAddr()
	}
	return nil
}

func (a *activeDataConn) SetDeadline(t time.Time) error {
	if a.conn != nil {
		return a.conn.SetDeadline(t)
	}
	return nil
}

func (a *activeDataConn) SetReadDeadline(t time.Time) error {
	if a.conn != nil {
		return a.conn.SetReadDeadline(t)
	}
	return nil
}

func (a *activeDataConn) SetWriteDeadline(t time.Time) error {
	if a.conn != nil {
		return a.conn.SetWriteDeadline(t)
	}
	return nil
}

// cmdDataConn executes a command that requires a data connection.
// It opens the data connection, sends the command, and returns the data
// connection. The caller must finish the transfer with finishDataConn.
func (c *Client) cmdDataConn(cmd string, args ...string) (net.Conn, error) {
	dataConn, err := c.openDataConn()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.activeDataConn = dataConn
	c.mu.Unlock()

	reply, err := c.sendCommand(cmd, args...)
	if err == nil && (reply.Code < 100 || reply.Code >= 400) {
		// 1xx preliminary and 2xx immediate completion are both fine;
		// anything in the failure ranges aborts the transfer.
		err = &ProtocolError{Command: cmd, Reply: reply}
	}
	if err != nil {
		dataConn.Close()
		c.mu.Lock()
		c.activeDataConn = nil
		c.mu.Unlock()
		return nil, err
	}

	return dataConn, nil
}

// finishDataConn closes the data connection and reads the completion
// reply (usually 226) from the control channel.
func (c *Client) finishDataConn(dataConn net.Conn) error {
	if err := dataConn.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %w", err)
	}

	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	reply, err := readReply(c.reader)

	c.mu.Lock()
	c.activeDataConn = nil
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to read completion reply: %w", err)
	}

	c.logger.Debug("ftp data transfer complete", "code", reply.Code, "message", reply.Message)

	if !reply.Is2xx() {
		return &ProtocolError{Command: "DATA TRANSFER", Reply: reply}
	}

	return nil
}
