package dataset

import (
	"sort"
	"strings"

	"safeguide/internal/config"
)

// Store holds the three loaded tables for the process lifetime. Tables
// are filled once by Load and never written again; accessors hand out
// the backing slices and callers treat them as read-only.
type Store struct {
	homicides   []Homicide
	attractions []Attraction
	hazards     []HazardEvent

	provinces  []string
	deathTypes []string
	eventTypes []string
}

// Load ingests all three sources. Any unreadable file or missing
// required column aborts the whole load.
func Load(cfg config.DatasetsConfig) (*Store, error) {
	homicides, err := loadHomicides(cfg.Homicides)
	if err != nil {
		return nil, err
	}
	attractions, err := loadAttractions(cfg.Tourism)
	if err != nil {
		return nil, err
	}
	hazards, err := loadHazards(cfg.Hazards)
	if err != nil {
		return nil, err
	}

	return NewStore(homicides, attractions, hazards), nil
}

// NewStore builds a store around already-parsed tables. Load is the
// normal entry point; this one exists for callers that assemble rows
// themselves.
func NewStore(homicides []Homicide, attractions []Attraction, hazards []HazardEvent) *Store {
	s := &Store{
		homicides:   homicides,
		attractions: attractions,
		hazards:     hazards,
	}
	s.provinces = distinct(homicides, func(r Homicide) string { return r.Province })
	s.deathTypes = distinct(homicides, func(r Homicide) string { return r.DeathType })
	s.eventTypes = distinct(hazards, func(r HazardEvent) string { return r.EventType })
	return s
}

func (s *Store) Homicides() []Homicide     { return s.homicides }
func (s *Store) Attractions() []Attraction { return s.attractions }
func (s *Store) Hazards() []HazardEvent    { return s.hazards }

// Provinces returns the distinct homicide provinces, sorted. The slice
// is a copy: filter dropdowns are free to hold on to it.
func (s *Store) Provinces() []string  { return append([]string(nil), s.provinces...) }
func (s *Store) DeathTypes() []string { return append([]string(nil), s.deathTypes...) }
func (s *Store) EventTypes() []string { return append([]string(nil), s.eventTypes...) }

func (s *Store) HasProvince(v string) bool  { return contains(s.provinces, v) }
func (s *Store) HasDeathType(v string) bool { return contains(s.deathTypes, v) }
func (s *Store) HasEventType(v string) bool { return contains(s.eventTypes, v) }

// GeocodableAttractions drops rows missing lat or lon, the same way the
// tourism table is narrowed before marker extraction.
func (s *Store) GeocodableAttractions() []Attraction {
	out := make([]Attraction, 0, len(s.attractions))
	for _, a := range s.attractions {
		if a.Lat != "" && a.Lon != "" {
			out = append(out, a)
		}
	}
	return out
}

// GeocodableHazards drops hazard rows missing lat or lon.
func (s *Store) GeocodableHazards() []HazardEvent {
	out := make([]HazardEvent, 0, len(s.hazards))
	for _, e := range s.hazards {
		if e.Lat != "" && e.Lon != "" {
			out = append(out, e)
		}
	}
	return out
}

func distinct[T any](rows []T, key func(T) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		v := strings.TrimSpace(key(r))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func contains(sorted []string, v string) bool {
	i := sort.SearchStrings(sorted, v)
	return i < len(sorted) && sorted[i] == v
}
