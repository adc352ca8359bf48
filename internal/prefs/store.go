package prefs

import "sync"

// Store keeps each user's selected template and occasion ids for the lifetime
// of the process. Selections are overwritten on re-selection and cleared on
// delete; there is no persistence.
type Store interface {
	Template(username string) (string, bool)
	SetTemplate(username, templateID string)
	Occasion(username string) (string, bool)
	SetOccasion(username, occasionID string)
	Clear(username string)
}

type store struct {
	mu        sync.RWMutex
	templates map[string]string
	occasions map[string]string
}

func New() Store {
	return &store{
		templates: make(map[string]string),
		occasions: make(map[string]string),
	}
}

func (s *store) Template(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.templates[username]
	return id, ok
}

func (s *store) SetTemplate(username, templateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[username] = templateID
}

func (s *store) Occasion(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.occasions[username]
	return id, ok
}

func (s *store) SetOccasion(username, occasionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occasions[username] = occasionID
}

func (s *store) Clear(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.templates, username)
	delete(s.occasions, username)
}
