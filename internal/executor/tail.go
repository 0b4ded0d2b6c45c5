// SPDX-License-Identifier: MPL-2.0

package executor

import "sync"

// DefaultTailSize bounds the stdout/stderr tails kept per command for
// summary display. Full output still streams to the configured writers.
const DefaultTailSize = 4096

// TailWriter is an io.Writer that retains only the last Max bytes
// written to it. It is safe for concurrent use since subprocess stdout
// and stderr pipes may write from separate goroutines.
type TailWriter struct {
	mu        sync.Mutex
	buf       []byte
	max       int
	truncated bool
}

// NewTailWriter creates a TailWriter keeping at most max bytes.
// A non-positive max falls back to DefaultTailSize.
func NewTailWriter(max int) *TailWriter {
	if max <= 0 {
		max = DefaultTailSize
	}
	return &TailWriter{max: max}
}

// Write implements io.Writer. It never fails.
func (w *TailWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(p) >= w.max {
		if len(p) > w.max || len(w.buf) > 0 {
			w.truncated = true
		}
		w.buf = append(w.buf[:0], p[len(p)-w.max:]...)
		return len(p), nil
	}

	w.buf = append(w.buf, p...)
	if overflow := len(w.buf) - w.max; overflow > 0 {
		w.buf = w.buf[overflow:]
		w.truncated = true
	}
	return len(p), nil
}

// String returns the retained tail.
func (w *TailWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.buf)
}

// Truncated reports whether output was dropped from the front.
func (w *TailWriter) Truncated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.truncated
}
