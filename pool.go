package ftpc

import (
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Pool.Get after the pool has been closed.
var ErrPoolClosed = errors.New("connection pool is closed")

// Pool keeps a bounded set of authenticated connections to one server
// so several transfers can run at the same time. Connections are dialed
// on demand, verified with NOOP before reuse, and replaced when the
// server has dropped them.
type Pool struct {
	addr     string
	username string
	password string
	options  []Option

	mu     sync.Mutex
	idle   []*Client
	size   int
	closed bool
}

// NewPool creates a pool of up to size connections to addr. Each
// connection is established with the given options and logged in with
// the given credentials on first use.
func NewPool(addr, username, password string, size int, options ...Option) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		addr:     addr,
		username: username,
		password: password,
		options:  options,
		size:     size,
	}
}

// Get returns a working client, reusing an idle connection when one is
// available. Idle connections that fail a NOOP check are discarded and
// replaced with a fresh dial. The caller must hand the client back with
// Put when done.
func (p *Pool) Get() (*Client, error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		var client *Client
		if n := len(p.idle); n > 0 {
			client = p.idle[n-1]
			p.idle = p.idle[:n-1]
		}
		p.mu.Unlock()

		if client == nil {
			return p.dial()
		}
		// The server may have dropped the connection while it sat idle.
		if client.Noop() == nil {
			return client, nil
		}
		_ = client.Quit()
	}
}

func (p *Pool) dial() (*Client, error) {
	client, err := Dial(p.addr, p.options...)
	if err != nil {
		return nil, err
	}
	if err := client.Login(p.username, p.password); err != nil {
		_ = client.Quit()
		return nil, err
	}
	return client, nil
}

// Put hands a client back to the pool. Connections that fail a NOOP
// check, or that would exceed the pool size, are closed instead.
func (p *Pool) Put(client *Client) {
	if client == nil {
		return
	}
	if client.Noop() != nil {
		_ = client.Quit()
		return
	}

	p.mu.Lock()
	if !p.closed && len(p.idle) < p.size {
		p.idle = append(p.idle, client)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	_ = client.Quit()
}

// Close quits every idle connection and makes further Get calls fail
// with ErrPoolClosed. Clients currently checked out are closed when
// their holders return them with Put.
func (p *Pool) Close() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.closed = true
	p.mu.Unlock()

	for _, client := range idle {
		_ = client.Quit()
	}
}
