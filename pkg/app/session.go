package app

import (
	"sync"
	"time"
)

// Session counts what happened between startup and shutdown
type Session struct {
	StartTime time.Time
	EndTime   *time.Time

	mu           sync.RWMutex
	commits      int
	dispatched   int
	unrecognized int
}

// Stats is a snapshot of session counters
type Stats struct {
	Duration     time.Duration
	Commits      int
	Dispatched   int
	Unrecognized int
}

// NewSession creates a session starting now
func NewSession() *Session {
	return &Session{StartTime: time.Now()}
}

// End marks the session as ended. Later calls keep the first end time.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.EndTime != nil {
		return
	}
	now := time.Now()
	s.EndTime = &now
}

// IsActive reports whether the session has not ended
func (s *Session) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.EndTime == nil
}

func (s *Session) recordCommit() {
	s.mu.Lock()
	s.commits++
	s.mu.Unlock()
}

func (s *Session) recordDispatch() {
	s.mu.Lock()
	s.dispatched++
	s.mu.Unlock()
}

func (s *Session) recordUnrecognized() {
	s.mu.Lock()
	s.unrecognized++
	s.mu.Unlock()
}

// Stats returns the current counters
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	end := time.Now()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return Stats{
		Duration:     end.Sub(s.StartTime),
		Commits:      s.commits,
		Dispatched:   s.dispatched,
		Unrecognized: s.unrecognized,
	}
}
