package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"safeguide/internal/dashboard"
	"safeguide/internal/dataset"
	"safeguide/internal/model"
	"safeguide/internal/service"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(context.Context, string) (string, error) {
	return s.reply, s.err
}

func testStore() *dataset.Store {
	return dataset.NewStore(
		[]dataset.Homicide{
			{Province: "PICHINCHA", DeathType: "ASESINATO", Weapon: "ARMA DE FUEGO", Sex: "HOMBRE"},
			{Province: "GUAYAS", DeathType: "ASESINATO", Weapon: "ARMA BLANCA", Sex: "MUJER"},
		},
		[]dataset.Attraction{
			{Name: "Mitad del Mundo", Category: "SITIOS NATURALES", Type: "Monumento", Lat: "-0.0022", Lon: "-78.4558"},
			{Name: "Sin Coordenadas", Category: "MUSEOS", Type: "Museo"},
		},
		[]dataset.HazardEvent{
			{EventType: "INTOXICACIÓN", Province: "PICHINCHA", Canton: "QUITO", Description: "x", Lat: "-0.22", Lon: "-78.52"},
			{EventType: "INUNDACIÓN", Province: "GUAYAS", Canton: "GUAYAQUIL", Description: "y", Lat: "bad", Lon: "-79.88"},
		},
	)
}

func newTestRouter(t *testing.T, llm service.Completer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testStore()
	session, err := dashboard.NewSession(store)
	require.NoError(t, err)

	dashH := NewDashboardHandler(store, session)
	chatH := NewChatHandler(service.NewGate(llm, time.Second))

	r := gin.New()
	api := r.Group("/api")
	api.GET("/filters", dashH.Filters)
	api.PUT("/filters", dashH.UpdateFilters)
	api.GET("/charts/homicides", dashH.HomicideChart)
	api.GET("/charts/events", dashH.EventChart)
	api.GET("/maps/tourism", dashH.TourismMap)
	api.GET("/maps/hazards", dashH.HazardMap)
	api.POST("/chat", chatH.Chat)
	api.GET("/chat/history", chatH.History)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestFiltersEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{})

	var resp model.FiltersResponse
	w := doJSON(t, r, "GET", "/api/filters", nil, &resp)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, []string{"GUAYAS", "PICHINCHA"}, resp.Provinces)
	require.Equal(t, []string{"ASESINATO"}, resp.DeathTypes)
	require.Equal(t, []string{"INTOXICACIÓN", "INUNDACIÓN"}, resp.EventTypes)
	require.Equal(t, "PICHINCHA", resp.Selected.Province)
	require.Equal(t, "INTOXICACIÓN", resp.Selected.EventType)
}

func TestUpdateFilters(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{})

	province := "GUAYAS"
	var resp model.FiltersResponse
	w := doJSON(t, r, "PUT", "/api/filters", model.FilterUpdateRequest{Province: &province}, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "GUAYAS", resp.Selected.Province)
	require.Equal(t, "ASESINATO", resp.Selected.DeathType)
}

func TestUpdateFiltersRejectsUnknownValueAndKeepsState(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{})

	bad := "ATLANTIS"
	w := doJSON(t, r, "PUT", "/api/filters", model.FilterUpdateRequest{Province: &bad}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "ATLANTIS")

	var resp model.FiltersResponse
	doJSON(t, r, "GET", "/api/filters", nil, &resp)
	require.Equal(t, "PICHINCHA", resp.Selected.Province)
}

func TestHomicideChartReflectsFilterState(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{})

	var chart model.HomicideChartResponse
	doJSON(t, r, "GET", "/api/charts/homicides", nil, &chart)
	require.Equal(t, "Homicidios por arma en PICHINCHA (ASESINATO)", chart.Title)
	require.Len(t, chart.Groups, 1)
	require.Equal(t, "ARMA DE FUEGO", chart.Groups[0].Weapon)

	province := "GUAYAS"
	doJSON(t, r, "PUT", "/api/filters", model.FilterUpdateRequest{Province: &province}, nil)

	doJSON(t, r, "GET", "/api/charts/homicides", nil, &chart)
	require.Equal(t, "Homicidios por arma en GUAYAS (ASESINATO)", chart.Title)
	require.Len(t, chart.Groups, 1)
	require.Equal(t, "ARMA BLANCA", chart.Groups[0].Weapon)
}

func TestEventChart(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{})

	var chart model.EventChartResponse
	doJSON(t, r, "GET", "/api/charts/events", nil, &chart)
	require.Equal(t, "Eventos registrados: INTOXICACIÓN", chart.Title)
	require.Len(t, chart.Groups, 1)
	require.Equal(t, "QUITO", chart.Groups[0].Canton)
}

func TestMapEndpointsServePrebuiltLayers(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{})

	var tourism map[string]any
	doJSON(t, r, "GET", "/api/maps/tourism", nil, &tourism)
	require.Equal(t, "Atractivos Turísticos", tourism["name"])
	require.Equal(t, "green", tourism["marker_color"])
	require.Len(t, tourism["markers"], 1)

	var hazards map[string]any
	doJSON(t, r, "GET", "/api/maps/hazards", nil, &hazards)
	require.Equal(t, "red", hazards["marker_color"])
	// the INUNDACIÓN row is off the allow-list and the INTOXICACIÓN
	// row survives coercion, so exactly one marker remains
	require.Len(t, hazards["markers"], 1)

	// maps stay fixed when the dropdown changes
	eventType := "INUNDACIÓN"
	doJSON(t, r, "PUT", "/api/filters", model.FilterUpdateRequest{EventType: &eventType}, nil)
	doJSON(t, r, "GET", "/api/maps/hazards", nil, &hazards)
	require.Len(t, hazards["markers"], 1)
}

func TestChatEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{reply: "Te recomiendo el centro histórico de Quito."})

	var resp model.ChatResponse
	w := doJSON(t, r, "POST", "/api/chat", model.ChatRequest{Text: "¿Qué visitar en Quito?"}, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Te recomiendo el centro histórico de Quito.", resp.Reply)

	var history []service.ConversationTurn
	doJSON(t, r, "GET", "/api/chat/history", nil, &history)
	require.Len(t, history, 1)
	require.Equal(t, "¿Qué visitar en Quito?", history[0].UserText)
}

func TestChatEndpointBlankInput(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{reply: "unused"})

	var resp model.ChatResponse
	w := doJSON(t, r, "POST", "/api/chat", model.ChatRequest{Text: "   "}, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.PromptForInput, resp.Reply)

	var history []service.ConversationTurn
	doJSON(t, r, "GET", "/api/chat/history", nil, &history)
	require.Empty(t, history)
}

func TestChatEndpointCollaboratorFailureIsInBand(t *testing.T) {
	r := newTestRouter(t, &stubCompleter{err: errors.New("llm status 500: upstream down")})

	var resp model.ChatResponse
	w := doJSON(t, r, "POST", "/api/chat", model.ChatRequest{Text: "hola"}, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, resp.Reply, "Error al procesar la respuesta")
}
