package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side HTTP session. Attribute values are opaque,
// already-serialized bytes.
type Session struct {
	ID             string
	Attributes     map[string][]byte
	CreatedAt      time.Time
	LastAccessedAt time.Time
	// MaxInactive bounds the idle time before the backup expires. Zero means
	// the backup never expires on its own.
	MaxInactive time.Duration
}

// NewSession returns an empty session with a random id.
func NewSession(maxInactive time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.NewString(),
		Attributes:     make(map[string][]byte),
		CreatedAt:      now,
		LastAccessedAt: now,
		MaxInactive:    maxInactive,
	}
}

// Get returns the attribute value stored under name.
func (s *Session) Get(name string) ([]byte, bool) {
	v, ok := s.Attributes[name]
	return v, ok
}

// Set stores value under name.
func (s *Session) Set(name string, value []byte) {
	if s.Attributes == nil {
		s.Attributes = make(map[string][]byte)
	}
	s.Attributes[name] = value
}

// Remove deletes the attribute stored under name.
func (s *Session) Remove(name string) {
	delete(s.Attributes, name)
}
