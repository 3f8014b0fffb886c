// Package ratelimit provides a token bucket rate limiter for bandwidth
// throttling of FTP data transfers.
package ratelimit

import (
	"io"
	"sync"
	"time"
)

// Limiter implements a token bucket limiter over bytes per second. The
// bucket capacity is one second worth of data, allowing short bursts
// while maintaining the average rate over time.
//
// A nil *Limiter is valid and imposes no limit.
type Limiter struct {
	mu         sync.Mutex
	rate       float64 // bytes per second
	burst      float64 // bucket capacity (max tokens)
	tokens     float64 // current available tokens
	lastUpdate time.Time
}

// New creates a limiter for the given rate in bytes per second.
// Zero or negative rates return nil, meaning unlimited.
func New(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	rate := float64(bytesPerSecond)
	return &Limiter{
		rate:       rate,
		burst:      rate,
		tokens:     rate, // Start with a full bucket
		lastUpdate: time.Now(),
	}
}

// refill adds tokens for the time elapsed since the last update.
// Callers must hold mu.
func (l *Limiter) refill(now time.Time) {
	l.tokens += now.Sub(l.lastUpdate).Seconds() * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.lastUpdate = now
}

// take consumes n tokens, sleeping when the bucket cannot cover them.
func (l *Limiter) take(n int) {
	if l == nil || n <= 0 {
		return
	}

	l.mu.Lock()
	l.refill(time.Now())

	needed := float64(n)
	if l.tokens >= needed {
		l.tokens -= needed
		l.mu.Unlock()
		return
	}

	// Not enough tokens: wait for the shortfall to accumulate.
	// Capped at one second so huge requests stay responsive.
	wait := time.Duration((needed - l.tokens) / l.rate * float64(time.Second))
	if wait > time.Second {
		wait = time.Second
	}
	l.tokens = 0
	l.mu.Unlock()

	time.Sleep(wait)

	l.mu.Lock()
	l.refill(time.Now())
	if l.tokens >= needed {
		l.tokens -= needed
	} else {
		l.tokens = 0 // Consume what there is
	}
	l.mu.Unlock()
}

// reader wraps an io.Reader to limit read speed.
type reader struct {
	r       io.Reader
	limiter *Limiter
}

// NewReader wraps r with rate limiting.
// A nil limiter returns r unchanged.
func NewReader(r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &reader{r: r, limiter: limiter}
}

// Read implements io.Reader with rate limiting.
func (r *reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	// Small chunks keep the pacing accurate
	const maxChunkSize = 8 * 1024
	readSize := len(p)
	if readSize > maxChunkSize {
		readSize = maxChunkSize
	}

	r.limiter.take(readSize)
	return r.r.Read(p[:readSize])
}

// writer wraps an io.Writer to limit write speed.
type writer struct {
	w       io.Writer
	limiter *Limiter
}

// NewWriter wraps w with rate limiting.
// A nil limiter returns w unchanged.
func NewWriter(w io.Writer, limiter *Limiter) io.Writer {
	if limiter == nil {
		return w
	}
	return &writer{w: w, limiter: limiter}
}

// Write implements io.Writer with rate limiting. Tokens are consumed
// before each chunk is written, applying backpressure to the producer.
func (w *writer) Write(p []byte) (int, error) {
	const maxChunkSize = 64 * 1024

	written := 0
	for written < len(p) {
		chunk := len(p) - written
		if chunk > maxChunkSize {
			chunk = maxChunkSize
		}

		w.limiter.take(chunk)

		n, err := w.w.Write(p[written : written+chunk])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
