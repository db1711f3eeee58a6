package transport

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestLineReader_Next(t *testing.T) {
	r := NewLineReader(strings.NewReader("a\n\n   \nb\nc"), 0)
	for _, want := range []struct {
		text string
		line int
	}{{"a", 1}, {"b", 4}, {"c", 5}} {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if string(got) != want.text || r.Line() != want.line {
			t.Errorf("Next = %q at line %d, want %q at line %d", got, r.Line(), want.text, want.line)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next error = %v, want EOF", err)
	}
}

func TestLineWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)
	if err := w.Write([]byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	// Flushed before Write returns.
	if got, want := buf.String(), `{"a":1}`+"\n"; got != want {
		t.Errorf("buffer = %q, want %q", got, want)
	}
}
