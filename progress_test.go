package ftpc

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestProgressReader(t *testing.T) {
	t.Parallel()
	var totals []int64
	pr := &ProgressReader{
		Reader:   strings.NewReader(strings.Repeat("a", 100)),
		Callback: func(n int64) { totals = append(totals, n) },
	}

	data, err := io.ReadAll(pr)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(data) != 100 {
		t.Errorf("read %d bytes, want 100", len(data))
	}
	if len(totals) == 0 {
		t.Fatal("callback never invoked")
	}
	if last := totals[len(totals)-1]; last != 100 {
		t.Errorf("final total = %d, want 100", last)
	}
	for i := 1; i < len(totals); i++ {
		if totals[i] < totals[i-1] {
			t.Errorf("totals not monotonic: %v", totals)
			break
		}
	}
}

func TestProgressWriter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	var last int64
	pw := &ProgressWriter{
		Writer:   &buf,
		Callback: func(n int64) { last = n },
	}

	if _, err := pw.Write([]byte("hello ")); err != nil {
		t.Fatal(err)
	}
	if _, err := pw.Write([]byte("world")); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "hello world" {
		t.Errorf("wrote %q", buf.String())
	}
	if last != 11 {
		t.Errorf("final total = %d, want 11", last)
	}
}

func TestProgressNilCallback(t *testing.T) {
	t.Parallel()
	pr := &ProgressReader{Reader: strings.NewReader("data")}
	if _, err := io.ReadAll(pr); err != nil {
		t.Errorf("nil callback must be usable: %v", err)
	}

	pw := &ProgressWriter{Writer: io.Discard}
	if _, err := pw.Write([]byte("data")); err != nil {
		t.Errorf("nil callback must be usable: %v", err)
	}
}
