package dataset

// Homicide is one intentional-homicide record from the MDI dataset.
type Homicide struct {
	Province  string `json:"province"`
	DeathType string `json:"death_type"`
	Weapon    string `json:"weapon"`
	Sex       string `json:"sex"`
}

// Attraction is one tourist-attraction record. Lat/Lon stay as the raw
// cell text; coercion to float happens per point when a map layer is
// built, so one bad cell never poisons the table.
type Attraction struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Lat      string `json:"lat"`
	Lon      string `json:"lon"`
}

// HazardEvent is one dangerous-event report from the SGR registry.
type HazardEvent struct {
	EventType   string `json:"event_type"`
	Province    string `json:"province"`
	Canton      string `json:"canton"`
	Description string `json:"description"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
