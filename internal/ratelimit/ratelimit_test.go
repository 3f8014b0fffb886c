package ratelimit

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		bytesPerSecond int64
		expectNil      bool
	}{
		{"valid rate", 1024, false},
		{"zero rate (unlimited)", 0, true},
		{"negative rate (unlimited)", -1, true},
		{"high rate", 10 * 1024 * 1024, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.bytesPerSecond)
			if tt.expectNil && limiter != nil {
				t.Errorf("New(%d) = %v, want nil", tt.bytesPerSecond, limiter)
			}
			if !tt.expectNil && limiter == nil {
				t.Errorf("New(%d) = nil, want non-nil", tt.bytesPerSecond)
			}
		})
	}
}

func TestNilLimiter(t *testing.T) {
	// A nil limiter must be usable and impose no limit.
	var limiter *Limiter
	limiter.take(4096)

	data := []byte("test data")
	if r := NewReader(bytes.NewReader(data), nil); r == nil {
		t.Fatal("NewReader with nil limiter returned nil")
	}
	var buf bytes.Buffer
	if w := NewWriter(&buf, nil); w != &buf {
		t.Error("NewWriter with nil limiter should return the original writer")
	}
}

func TestNewReader_Wraps(t *testing.T) {
	data := []byte("test data")
	reader := bytes.NewReader(data)

	limited := NewReader(reader, New(1024))
	if limited == io.Reader(reader) {
		t.Error("expected wrapped reader when limiter is non-nil")
	}

	result, err := io.ReadAll(limited)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(result, data) {
		t.Errorf("read %q, want %q", result, data)
	}
}

func TestReader_BurstIsImmediate(t *testing.T) {
	// The bucket starts full, so a transfer within the burst size
	// should not block.
	data := make([]byte, 1024)
	reader := NewReader(bytes.NewReader(data), New(10*1024))

	start := time.Now()
	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result) != len(data) {
		t.Errorf("read %d bytes, want %d", len(result), len(data))
	}
	if d := time.Since(start); d > 500*time.Millisecond {
		t.Errorf("burst read took %v, expected near-immediate completion", d)
	}
}

func TestReader_PacesBeyondBurst(t *testing.T) {
	// 8KB at 4KB/s: the first 4KB is the initial burst, the second
	// 4KB must wait roughly a second.
	data := make([]byte, 8*1024)
	for i := range data {
		data[i] = byte(i % 256)
	}

	reader := NewReader(bytes.NewReader(data), New(4*1024))

	start := time.Now()
	result, err := io.ReadAll(reader)
	duration := time.Since(start)

	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(data, result) {
		t.Error("data mismatch after rate-limited read")
	}
	if duration < 500*time.Millisecond {
		t.Errorf("read completed in %v, rate limiting may not be working", duration)
	}
	if duration > 3*time.Second {
		t.Errorf("read took %v, possible performance issue", duration)
	}
}

func TestWriter_PacesBeyondBurst(t *testing.T) {
	data := make([]byte, 8*1024)
	for i := range data {
		data[i] = byte(i % 256)
	}

	var buf bytes.Buffer
	writer := NewWriter(&buf, New(4*1024))

	start := time.Now()
	n, err := writer.Write(data)
	duration := time.Since(start)

	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("wrote %d bytes, want %d", n, len(data))
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Error("data mismatch after rate-limited write")
	}
	if duration < 500*time.Millisecond {
		t.Errorf("write completed in %v, rate limiting may not be working", duration)
	}
}
