package dashboard

import (
	"sync"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Frame is what a region currently shows.
type Frame struct {
	Region domain.Region      `json:"region"`
	State  domain.RegionState `json:"state"`
	HTML   string             `json:"html"`
}

// Screen receives every fragment a controller renders.
type Screen interface {
	ShowRegion(frame Frame)
	ShowOverlay(html string)
	ShowNotifications(html string)
}

type discardScreen struct{}

func (discardScreen) ShowRegion(Frame)         {}
func (discardScreen) ShowOverlay(string)       {}
func (discardScreen) ShowNotifications(string) {}

const maxHistory = 256

// MemoryScreen records rendered fragments in memory.
type MemoryScreen struct {
	mu            sync.RWMutex
	regions       map[domain.Region]Frame
	history       []Frame
	overlay       string
	notifications string
}

// NewMemoryScreen creates an empty screen.
func NewMemoryScreen() *MemoryScreen {
	return &MemoryScreen{regions: make(map[domain.Region]Frame)}
}

// ShowRegion implements Screen.
func (s *MemoryScreen) ShowRegion(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[frame.Region] = frame
	s.history = append(s.history, frame)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
}

// ShowOverlay implements Screen. An empty fragment closes the overlay.
func (s *MemoryScreen) ShowOverlay(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = html
}

// ShowNotifications implements Screen.
func (s *MemoryScreen) ShowNotifications(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = html
}

// Region returns the last frame shown for r.
func (s *MemoryScreen) Region(r domain.Region) (Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frame, ok := s.regions[r]
	return frame, ok
}

// History returns the frames shown for r, oldest first.
func (s *MemoryScreen) History(r domain.Region) []Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Frame
	for _, f := range s.history {
		if f.Region == r {
			out = append(out, f)
		}
	}
	return out
}

// Overlay returns the overlay fragment, empty when closed.
func (s *MemoryScreen) Overlay() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay
}

// Notifications returns the last notification fragment.
func (s *MemoryScreen) Notifications() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications
}
