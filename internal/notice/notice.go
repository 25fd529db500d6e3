// Package notice delivers user-visible messages such as login prompts and failure toasts.
package notice

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a notice.
//
//go:generate go tool enumer -type=Kind -trimprefix=Kind -transform=snake
type Kind int

const (
	KindInfo Kind = iota
	KindError
	KindLoginRequired
)

// Notice is a message shown to the viewer.
type Notice struct {
	Kind    Kind
	Message string
}

// Common notices.
var (
	LoginRequired = Notice{Kind: KindLoginRequired, Message: "Please log in to vote"}
	VoteFailed    = Notice{Kind: KindError, Message: "Failed to register your vote. Please try again."}
)

// Notifier shows notices to the viewer.
type Notifier interface {
	Notify(n Notice)
}

// Writer prints notices to a terminal and logs them.
type Writer struct {
	out    io.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewWriter creates a Writer that prints to out.
func NewWriter(out io.Writer, logger *zap.Logger) *Writer {
	return &Writer{out: out, logger: logger.Named("notice")}
}

// Notify prints the notice.
func (w *Writer) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.logger.Debug("Showing notice", zap.Stringer("kind", n.Kind), zap.String("message", n.Message))

	switch n.Kind {
	case KindError:
		fmt.Fprintf(w.out, "error: %s\n", n.Message)
	case KindLoginRequired:
		fmt.Fprintf(w.out, "login required: %s (run `hubctl login`)\n", n.Message)
	default:
		fmt.Fprintln(w.out, n.Message)
	}
}

// Recorder keeps every notice it receives.
type Recorder struct {
	notices []Notice
	mu      sync.Mutex
}

// Notify records the notice.
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Discard drops every notice.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(Notice) {}
