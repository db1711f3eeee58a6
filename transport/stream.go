package transport

import (
	"bufio"
	"bytes"
	"io"

	"github.com/tobiajo/whirlpool/protocol"
)

// DefaultMaxLineBytes bounds a single input line. Read replies on the log
// workload grow with the log, so this is well above bufio's default.
const DefaultMaxLineBytes = 16 << 20

// LineReader yields newline-delimited documents from an input stream,
// skipping blank lines.
type LineReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewLineReader(r io.Reader, maxLineBytes int) *LineReader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	initial := 64 * 1024
	if maxLineBytes < initial {
		initial = maxLineBytes
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), maxLineBytes)
	return &LineReader{scanner: scanner}
}

// Next returns the next non-blank line, or io.EOF once the input is exhausted.
// The returned slice is only valid until the following call.
func (r *LineReader) Next() ([]byte, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Line is the 1-based number of the last line read.
func (r *LineReader) Line() int {
	return r.line
}

// LineWriter emits one document per line and flushes after every write.
type LineWriter struct {
	w *bufio.Writer
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: bufio.NewWriter(w)}
}

// Write emits doc followed by a newline. Failures are TransportWriteFailure
// errors.
func (w *LineWriter) Write(doc []byte) error {
	if _, err := w.w.Write(doc); err != nil {
		return protocol.WriteFailure(err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return protocol.WriteFailure(err)
	}
	if err := w.w.Flush(); err != nil {
		return protocol.WriteFailure(err)
	}
	return nil
}
