package ftpc

import "io"

// ProgressReader reports a running total of bytes read to Callback.
// Wrap the local source passed to Store to observe upload progress.
// The callback runs on the transfer goroutine, so it should be quick.
type ProgressReader struct {
	Reader   io.Reader
	Callback func(total int64)

	total int64
}

func (r *ProgressReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	if n > 0 {
		r.total += int64(n)
		if r.Callback != nil {
			r.Callback(r.total)
		}
	}
	return n, err
}

// ProgressWriter is the download counterpart of ProgressReader: wrap
// the local destination passed to Retrieve.
type ProgressWriter struct {
	Writer   io.Writer
	Callback func(total int64)

	total int64
}

func (w *ProgressWriter) Write(p []byte) (int, error) {
	n, err := w.Writer.Write(p)
	if n > 0 {
		w.total += int64(n)
		if w.Callback != nil {
			w.Callback(w.total)
		}
	}
	return n, err
}
