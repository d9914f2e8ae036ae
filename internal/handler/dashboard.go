package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"safeguide/internal/dashboard"
	"safeguide/internal/dataset"
	"safeguide/internal/geomap"
	"safeguide/internal/logger"
	"safeguide/internal/model"
)

type DashboardHandler struct {
	store   *dataset.Store
	session *dashboard.Session

	// Map layers are built once from the full dataset and never
	// refiltered on dropdown changes. The maps show a fixed view;
	// only the charts react to the filters.
	tourism geomap.Layer
	hazards geomap.Layer
}

func NewDashboardHandler(store *dataset.Store, session *dashboard.Session) *DashboardHandler {
	h := &DashboardHandler{
		store:   store,
		session: session,
		tourism: geomap.TourismLayer(store.GeocodableAttractions()),
		hazards: geomap.HazardLayer(store.GeocodableHazards()),
	}
	logger.Info("map layers built",
		"tourism_markers", len(h.tourism.Markers), "tourism_skipped", h.tourism.Skipped,
		"hazard_markers", len(h.hazards.Markers), "hazard_skipped", h.hazards.Skipped)
	return h
}

// Filters handles GET /api/filters.
func (h *DashboardHandler) Filters(c *gin.Context) {
	state := h.session.State()
	c.JSON(http.StatusOK, model.FiltersResponse{
		Provinces:  h.store.Provinces(),
		DeathTypes: h.store.DeathTypes(),
		EventTypes: h.store.EventTypes(),
		Selected: model.SelectedFilters{
			Province:  state.Province,
			DeathType: state.DeathType,
			EventType: h.session.EventType(),
		},
	})
}

// UpdateFilters handles PUT /api/filters. Each provided field is
// validated against the observed domain; a bad value is rejected with
// the prior selection left intact.
func (h *DashboardHandler) UpdateFilters(c *gin.Context) {
	var req model.FilterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	apply := func(set func(string) error, v *string) bool {
		if v == nil {
			return true
		}
		if err := set(*v); err != nil {
			var invalid *dashboard.InvalidFilterValueError
			if errors.As(err, &invalid) {
				c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "field": invalid.Field})
				return false
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return false
		}
		return true
	}

	if !apply(func(v string) error { _, err := h.session.SetProvince(v); return err }, req.Province) {
		return
	}
	if !apply(func(v string) error { _, err := h.session.SetDeathType(v); return err }, req.DeathType) {
		return
	}
	if !apply(func(v string) error { _, err := h.session.SetEventType(v); return err }, req.EventType) {
		return
	}

	h.Filters(c)
}

// HomicideChart handles GET /api/charts/homicides.
func (h *DashboardHandler) HomicideChart(c *gin.Context) {
	state := h.session.State()
	groups := dashboard.HomicidesByWeaponAndSex(h.store.Homicides(), state)
	c.JSON(http.StatusOK, model.HomicideChartResponse{
		Title:  fmt.Sprintf("Homicidios por arma en %s (%s)", state.Province, state.DeathType),
		Groups: groups,
	})
}

// EventChart handles GET /api/charts/events.
func (h *DashboardHandler) EventChart(c *gin.Context) {
	eventType := h.session.EventType()
	groups := dashboard.EventsByProvinceAndCanton(h.store.Hazards(), eventType)
	c.JSON(http.StatusOK, model.EventChartResponse{
		Title:  fmt.Sprintf("Eventos registrados: %s", eventType),
		Groups: groups,
	})
}

// TourismMap handles GET /api/maps/tourism.
func (h *DashboardHandler) TourismMap(c *gin.Context) {
	c.JSON(http.StatusOK, h.tourism)
}

// HazardMap handles GET /api/maps/hazards.
func (h *DashboardHandler) HazardMap(c *gin.Context) {
	c.JSON(http.StatusOK, h.hazards)
}
