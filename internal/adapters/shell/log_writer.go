package shell

import (
	"bytes"
	"slices"
	"sync"
)

// logWriter forwards complete lines of command output to a log function.
// Partial lines are buffered until a newline arrives or Flush is called.
type logWriter struct {
	mu     sync.Mutex
	prefix string
	log    func(string)
	buf    bytes.Buffer
}

func newLogWriter(prefix string, log func(string)) *logWriter {
	return &logWriter{prefix: prefix, log: log}
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// No newline yet: keep the fragment for the next write.
			rest := slices.Clone(line)
			w.buf.Reset()
			w.buf.Write(rest)
			return len(p), nil
		}
		w.emit(line[:len(line)-1])
	}
}

// Flush emits a trailing partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.Bytes())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line []byte) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	w.log(w.prefix + ": " + string(line))
}
