// Package notifier delivers short user-facing messages. Delivery is fire and
// forget: a Sink never reports failure back to the caller.
package notifier

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Sink shows a message to the user.
type Sink interface {
	Notify(text string)
}

// Func adapts a plain function to a Sink.
type Func func(text string)

func (f Func) Notify(text string) { f(text) }

// Discard drops every message.
var Discard Sink = Func(func(string) {})

type multi []Sink

// Multi fans a message out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multi) Notify(text string) {
	for _, s := range m {
		s.Notify(text)
	}
}

var noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

// Console prints messages to w, one per line.
type Console struct {
	w     io.Writer
	style lipgloss.Style
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w, style: noticeStyle}
}

func (c *Console) Notify(text string) {
	fmt.Fprintln(c.w, c.style.Render(text))
}

// Recorder keeps messages in memory until drained. Safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Notify(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Drain returns and clears the recorded messages.
func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

// Last returns the most recent message, or "" if none.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}
