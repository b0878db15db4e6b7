package tui

import (
	"fmt"
	"io"
	"sync"

	"chanakya/internal/render"
)

// LineSurface prints views as plain lines, for pipes and one-shot commands.
type LineSurface struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
}

// NewLineSurface writes to out. A quiet surface skips the listening and processing
// placeholders and prints only final views.
func NewLineSurface(out io.Writer, quiet bool) *LineSurface {
	if out == nil {
		out = io.Discard
	}
	return &LineSurface{out: out, quiet: quiet}
}

func (l *LineSurface) SetListening(on bool) {}

func (l *LineSurface) ShowView(v render.View) {
	if l.quiet && (v.Kind == render.KindListening || v.Kind == render.KindProcessing) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.out, v.Text())
}

func (l *LineSurface) ClearInput() {}

func (l *LineSurface) SetRotation(deg float64) {}
