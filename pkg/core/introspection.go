package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	Location       string `json:"location"`
	Today          string `json:"today"`
	Transactional  bool   `json:"transactional"`
	Repository     any    `json:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}
	_, transactional := s.repo.(Transactional)

	state := ServiceState{
		RepositoryType: repoType,
		Location:       s.loc.String(),
		Today:          NoteID(s.now(), s.loc),
		Transactional:  transactional,
	}
	if intro, ok := s.repo.(introspection.Introspectable); ok {
		state.Repository = intro.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
