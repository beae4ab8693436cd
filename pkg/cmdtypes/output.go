package cmdtypes

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Output is the sink handed to a command executor. The engine never buffers
// or renders what is written to it.
type Output interface {
	Message(text string)
	Messagef(format string, args ...any)
}

// WriterOutput writes each message as a line to an io.Writer.
type WriterOutput struct {
	W io.Writer
}

// NewWriterOutput returns an Output writing to w.
func NewWriterOutput(w io.Writer) *WriterOutput {
	return &WriterOutput{W: w}
}

// Message writes text followed by a newline.
func (o *WriterOutput) Message(text string) {
	if strings.HasSuffix(text, "\n") {
		_, _ = io.WriteString(o.W, text)
		return
	}
	_, _ = io.WriteString(o.W, text+"\n")
}

// Messagef formats and writes a message.
func (o *WriterOutput) Messagef(format string, args ...any) {
	o.Message(fmt.Sprintf(format, args...))
}

// BufferOutput records messages in memory.
type BufferOutput struct {
	mu    sync.Mutex
	lines []string
}

// Message records text.
func (b *BufferOutput) Message(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, text)
}

// Messagef formats and records a message.
func (b *BufferOutput) Messagef(format string, args ...any) {
	b.Message(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the recorded messages.
func (b *BufferOutput) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// String joins the recorded messages with newlines.
func (b *BufferOutput) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Reset drops every recorded message.
func (b *BufferOutput) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}
