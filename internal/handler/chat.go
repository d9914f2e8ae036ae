package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"safeguide/internal/metrics"
	"safeguide/internal/model"
	"safeguide/internal/service"
)

type ChatHandler struct {
	gate *service.Gate
}

func NewChatHandler(gate *service.Gate) *ChatHandler {
	return &ChatHandler{gate: gate}
}

// Chat handles POST /api/chat. Assistant failures come back as in-band
// reply text, never as an HTTP error: the chat panel always has
// something to show.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply := h.gate.Respond(c.Request.Context(), req.Text)
	metrics.ChatTurns.WithLabelValues(chatOutcome(req.Text, reply)).Inc()
	c.JSON(http.StatusOK, model.ChatResponse{Reply: reply})
}

// History handles GET /api/chat/history.
func (h *ChatHandler) History(c *gin.Context) {
	turns := h.gate.History()
	if turns == nil {
		turns = []service.ConversationTurn{}
	}
	c.JSON(http.StatusOK, turns)
}

func chatOutcome(text, reply string) string {
	switch {
	case strings.TrimSpace(text) == "":
		return "blank"
	case strings.HasPrefix(reply, "Error al procesar la respuesta"):
		return "error"
	case reply == service.RefusalSentence:
		return "refused"
	default:
		return "answered"
	}
}
