package geomap

import (
	"fmt"
	"strconv"
	"strings"

	"safeguide/internal/dataset"
	"safeguide/internal/logger"
)

// Map viewport constants: the country centroid and a zoom wide enough
// to frame all of Ecuador.
const (
	CenterLat = -1.8312
	CenterLon = -78.1834
	Zoom      = 6
)

// Point is one candidate marker with the coordinates still in raw cell
// form. Coercion happens inside BuildClusteredLayer.
type Point struct {
	Lat   string
	Lon   string
	Popup string
}

// Marker is a coerced, renderable map point.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// Layer is a self-contained clustered marker layer: everything the
// rendering side needs to draw it, with no further data lookups.
type Layer struct {
	Name        string   `json:"name"`
	MarkerColor string   `json:"marker_color"`
	CenterLat   float64  `json:"center_lat"`
	CenterLon   float64  `json:"center_lon"`
	Zoom        int      `json:"zoom"`
	Markers     []Marker `json:"markers"`
	Skipped     int      `json:"skipped"`
}

// BuildClusteredLayer folds points into a single named cluster layer.
// A point whose lat or lon does not parse as a float is skipped and
// counted; a bad row never aborts the build.
func BuildClusteredLayer(name, markerColor string, points []Point) Layer {
	layer := Layer{
		Name:        name,
		MarkerColor: markerColor,
		CenterLat:   CenterLat,
		CenterLon:   CenterLon,
		Zoom:        Zoom,
		Markers:     make([]Marker, 0, len(points)),
	}
	for _, p := range points {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
		if latErr != nil || lonErr != nil {
			layer.Skipped++
			logger.Debug("skipping marker with bad coordinates", "layer", name, "lat", p.Lat, "lon", p.Lon)
			continue
		}
		layer.Markers = append(layer.Markers, Marker{Lat: lat, Lon: lon, Popup: p.Popup})
	}
	return layer
}

// TourismLayer builds the attraction cluster from the geocodable subset
// of the tourism table.
func TourismLayer(rows []dataset.Attraction) Layer {
	points := make([]Point, 0, len(rows))
	for _, a := range rows {
		points = append(points, Point{
			Lat:   a.Lat,
			Lon:   a.Lon,
			Popup: fmt.Sprintf("<b>%s</b><br>%s<br>%s", a.Name, a.Category, a.Type),
		})
	}
	return BuildClusteredLayer("Atractivos Turísticos", "green", points)
}

// hazardMapEvents is the curated subset of event types shown on the
// hazard map. This prefilter is independent of the chart dropdown: the
// map always shows this fixed view.
var hazardMapEvents = map[string]bool{
	"INTOXICACIÓN": true,
	"AGLOMERACIÓN": true,
}

// HazardLayer builds the dangerous-event cluster from the allow-listed,
// geocodable subset of the hazard table.
func HazardLayer(rows []dataset.HazardEvent) Layer {
	points := make([]Point, 0, len(rows))
	for _, e := range rows {
		if !hazardMapEvents[strings.ToUpper(strings.TrimSpace(e.EventType))] {
			continue
		}
		points = append(points, Point{
			Lat:   e.Lat,
			Lon:   e.Lon,
			Popup: fmt.Sprintf("<b>%s</b><br>%s - %s<br>%s", e.EventType, e.Province, e.Canton, e.Description),
		})
	}
	return BuildClusteredLayer("Eventos Peligrosos", "red", points)
}
