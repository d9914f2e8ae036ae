package model

import "safeguide/internal/dashboard"

type ChatRequest struct {
	Text string `json:"text"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// FiltersResponse carries the dropdown domains plus the current
// selection for each axis.
type FiltersResponse struct {
	Provinces  []string        `json:"provinces"`
	DeathTypes []string        `json:"death_types"`
	EventTypes []string        `json:"event_types"`
	Selected   SelectedFilters `json:"selected"`
}

type SelectedFilters struct {
	Province  string `json:"province"`
	DeathType string `json:"death_type"`
	EventType string `json:"event_type"`
}

// FilterUpdateRequest is a partial update: nil fields are untouched.
type FilterUpdateRequest struct {
	Province  *string `json:"province,omitempty"`
	DeathType *string `json:"death_type,omitempty"`
	EventType *string `json:"event_type,omitempty"`
}

type HomicideChartResponse struct {
	Title  string                     `json:"title"`
	Groups []dashboard.WeaponSexCount `json:"groups"`
}

type EventChartResponse struct {
	Title  string                          `json:"title"`
	Groups []dashboard.ProvinceCantonCount `json:"groups"`
}
