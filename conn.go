package ftpc

import (
	"net"
	"time"
)

// timedConn pushes the client's timeout forward as a fresh deadline
// before every read and write, so a stalled transfer fails with a
// timeout instead of hanging. Data connections are wrapped with it
// whenever a timeout is configured.
type timedConn struct {
	net.Conn
	timeout time.Duration
}

func (t *timedConn) Read(p []byte) (int, error) {
	if err := t.extend(); err != nil {
		return 0, err
	}
	return t.Conn.Read(p)
}

func (t *timedConn) Write(p []byte) (int, error) {
	if err := t.extend(); err != nil {
		return 0, err
	}
	return t.Conn.Write(p)
}

func (t *timedConn) extend() error {
	if t.timeout <= 0 {
		return nil
	}
	return t.Conn.SetDeadline(time.Now().Add(t.timeout))
}
