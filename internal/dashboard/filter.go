package dashboard

import (
	"fmt"
	"sync"

	"safeguide/internal/dataset"
)

// Startup defaults. Each must exist in the loaded data or NewSession
// refuses to start.
const (
	DefaultProvince  = "PICHINCHA"
	DefaultDeathType = "ASESINATO"
	DefaultEventType = "INTOXICACIÓN"
)

// FilterState is the current homicide-chart selection. Two states are
// equal iff both fields are equal, so plain == works for change checks.
type FilterState struct {
	Province  string `json:"province"`
	DeathType string `json:"death_type"`
}

// InvalidFilterValueError rejects a filter value outside the observed
// domain of its column. The prior state is always retained.
type InvalidFilterValueError struct {
	Field string
	Value string
}

func (e *InvalidFilterValueError) Error() string {
	return fmt.Sprintf("invalid %s filter value %q: not present in the dataset", e.Field, e.Value)
}

// Session is the single reactive dashboard session for the process.
// All filter reads and writes go through one mutex, mirroring a
// cooperative event loop: one handler runs to completion at a time.
type Session struct {
	store *dataset.Store

	mu        sync.Mutex
	state     FilterState
	eventType string
}

func NewSession(store *dataset.Store) (*Session, error) {
	s := &Session{
		store:     store,
		state:     FilterState{Province: DefaultProvince, DeathType: DefaultDeathType},
		eventType: DefaultEventType,
	}
	if !store.HasProvince(s.state.Province) {
		return nil, fmt.Errorf("default province %q not present in homicide data", s.state.Province)
	}
	if !store.HasDeathType(s.state.DeathType) {
		return nil, fmt.Errorf("default death type %q not present in homicide data", s.state.DeathType)
	}
	if !store.HasEventType(s.eventType) {
		return nil, fmt.Errorf("default event type %q not present in hazard data", s.eventType)
	}
	return s, nil
}

func (s *Session) SetProvince(v string) (FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.HasProvince(v) {
		return s.state, &InvalidFilterValueError{Field: "province", Value: v}
	}
	s.state.Province = v
	return s.state, nil
}

func (s *Session) SetDeathType(v string) (FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.HasDeathType(v) {
		return s.state, &InvalidFilterValueError{Field: "death_type", Value: v}
	}
	s.state.DeathType = v
	return s.state, nil
}

func (s *Session) SetEventType(v string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.HasEventType(v) {
		return s.eventType, &InvalidFilterValueError{Field: "event_type", Value: v}
	}
	s.eventType = v
	return s.eventType, nil
}

func (s *Session) State() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) EventType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventType
}
