package backend

import (
	"bytes"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Forwards backend process output into the daemon log, one entry per line.
//
// The writer buffers partial lines across Write calls; a line is emitted only
// once its newline arrives. The Tauri shell inherited the backend's stdio
// directly, but a daemon owns no terminal, so output is folded into the
// structured log instead.
type logWriter struct {
	logger *zap.Logger
	level  zapcore.Level
	mu     sync.Mutex
	buf    bytes.Buffer
}

// Creates a writer that logs each output line at the given level.
func newLogWriter(logger *zap.Logger, level zapcore.Level) *logWriter {
	return &logWriter{logger: logger, level: level}
}

// Appends output and emits every complete line.
func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)

	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line: keep it buffered for the next Write.
			w.buf.WriteString(line)
			break
		}
		w.emit(line)
	}

	return len(p), nil
}

// Emits whatever remains in the buffer as a final line. Called after the
// process exits so a missing trailing newline does not swallow output.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

// Logs a single line, stripped of its trailing newline.
func (w *logWriter) emit(line string) {
	line = trimEOL(line)
	if line == "" {
		return
	}
	if ce := w.logger.Check(w.level, line); ce != nil {
		ce.Write()
	}
}

// Strips a trailing LF or CRLF.
func trimEOL(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
