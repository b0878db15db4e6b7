package tui

import (
	"sync"

	"chanakya/internal/render"
)

// screen is what the controller paints; the bubbletea model reads it in View.
type screen struct {
	mu        sync.Mutex
	listening bool
	view      render.View
	rotation  float64
	clearSeq  uint64
}

type snapshot struct {
	listening bool
	view      render.View
	rotation  float64
	clearSeq  uint64
}

// Surface implements controller.Surface on top of the bubbletea program. Writes never
// block on the program: they update shared state and nudge the model to redraw.
type Surface struct {
	st    *screen
	nudge chan struct{}
}

// NewSurface returns a Surface starting in the idle state.
func NewSurface() *Surface {
	return &Surface{st: &screen{}, nudge: make(chan struct{}, 1)}
}

func (s *Surface) SetListening(on bool) {
	s.update(func(st *screen) { st.listening = on })
}

func (s *Surface) ShowView(v render.View) {
	s.update(func(st *screen) { st.view = v })
}

func (s *Surface) ClearInput() {
	s.update(func(st *screen) { st.clearSeq++ })
}

func (s *Surface) SetRotation(deg float64) {
	s.update(func(st *screen) { st.rotation = deg })
}

func (s *Surface) update(fn func(*screen)) {
	s.st.mu.Lock()
	fn(s.st)
	s.st.mu.Unlock()
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

func (s *Surface) snapshot() snapshot {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return snapshot{
		listening: s.st.listening,
		view:      s.st.view,
		rotation:  s.st.rotation,
		clearSeq:  s.st.clearSeq,
	}
}
