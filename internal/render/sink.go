package render

import (
	"bytes"
	"errors"
	"io"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when no clipboard utility is installed
var ErrNoClipboard = errors.New("no clipboard utility available")

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard with the platform clipboard tools
type systemClipboard struct{}

// Copy copies text to the system clipboard
func (systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard returns the platform clipboard
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

// Sink forwards output to a writer and, when a clipboard is set, keeps a
// copy that Flush places on the clipboard.
type Sink struct {
	out  io.Writer
	buf  bytes.Buffer
	clip Clipboard
}

// NewSink creates a sink writing to out. clip may be nil.
func NewSink(out io.Writer, clip Clipboard) *Sink {
	return &Sink{out: out, clip: clip}
}

// Write implements io.Writer
func (s *Sink) Write(p []byte) (int, error) {
	if s.clip != nil {
		s.buf.Write(p)
	}
	return s.out.Write(p)
}

// Flush copies everything written so far to the clipboard
func (s *Sink) Flush() error {
	if s.clip == nil || s.buf.Len() == 0 {
		return nil
	}
	err := s.clip.Copy(s.buf.String())
	s.buf.Reset()
	return err
}
