package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"safeguide/internal/logger"
)

// Gate states. Awaiting covers the window between accepting a submit
// and producing the assistant side of the turn.
const (
	StateIdle int32 = iota
	StateAwaiting
)

// PromptForInput is returned for blank submits; it never reaches the
// model and never touches history.
const PromptForInput = "Escribe tu pregunta sobre turismo seguro en Ecuador para comenzar."

// RefusalSentence is what the model is instructed to return, verbatim,
// for anything outside the tourism-safety domain.
const RefusalSentence = "Estoy enfocado en la guía turística, para otra consulta puedes utilizar otra herramienta"

// promptTemplate embeds the domain policy. Refusal is enforced by this
// prompt, not by a separate classifier: the model is trusted to honor
// the instruction.
const promptTemplate = `Eres SafeGuide, un asistente virtual experto en turismo seguro en Ecuador.

Tu función principal es ayudar a los usuarios a planificar viajes informados, seguros y agradables dentro del país. Para ello, debes responder preguntas relacionadas con:

- Qué provincias, ciudades o cantones vale la pena visitar en Ecuador.
- Qué lugares se deben visitar con precaución por temas de delincuencia o eventos peligrosos.
- Qué zonas son más concurridas o recomendadas para cierto tipo de turismo.
- Dónde están los mejores atractivos turísticos del país.
- Cuáles son los sitios con más riesgos o alertas recientes.
- Qué lugares son ideales para ciertos perfiles (familias, mochileros, culturales, gastronómicos, etc.).

Si la pregunta del usuario está relacionada con cualquiera de estos temas, responde con información clara y útil para planificar un viaje por Ecuador.

Si la pregunta NO está relacionada en absoluto con turismo en Ecuador (por ejemplo, si es sobre otro país, vuelos internacionales, clima global, inteligencia artificial, recetas o temas generales), responde únicamente lo siguiente en el mismo idioma del usuario:
"` + RefusalSentence + `"

Usuario: "%s"

Responde de forma clara, amigable y en el idioma detectado del usuario.`

// ConversationTurn is one completed exchange. Turns are append-only and
// never mutated; Seq is the 1-based position in the session.
type ConversationTurn struct {
	ID            string `json:"id"`
	UserText      string `json:"user_text"`
	AssistantText string `json:"assistant_text"`
	Seq           int    `json:"seq"`
}

// Gate runs one conversational turn at a time against the domain
// policy. One gate per process: the chat panel has a single global
// session, like the filters.
type Gate struct {
	llm     Completer
	timeout time.Duration
	state   atomic.Int32

	mu    sync.Mutex
	turns []ConversationTurn
}

func NewGate(llm Completer, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gate{llm: llm, timeout: timeout}
}

// BuildPrompt renders the policy prompt around the user's text.
func BuildPrompt(userText string) string {
	return fmt.Sprintf(promptTemplate, userText)
}

// Respond handles one submit. Blank input short-circuits to a fixed
// prompt-for-input message. A collaborator failure becomes in-band
// assistant text and the turn is still appended, so the transcript
// shows the user what happened. Respond never returns an error to the
// HTTP layer.
//
// The upstream call runs under a timeout; a hung collaborator releases
// the session instead of wedging it.
func (g *Gate) Respond(ctx context.Context, userText string) string {
	if strings.TrimSpace(userText) == "" {
		return PromptForInput
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Store(StateAwaiting)
	defer g.state.Store(StateIdle)

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	reply, err := g.llm.Complete(cctx, BuildPrompt(userText))
	if err != nil {
		logger.Error("assistant invocation failed", "err", err)
		reply = fmt.Sprintf("Error al procesar la respuesta: %v", err)
	}

	g.turns = append(g.turns, ConversationTurn{
		ID:            uuid.NewString(),
		UserText:      userText,
		AssistantText: reply,
		Seq:           len(g.turns) + 1,
	})
	return reply
}

// History returns a copy of the transcript so far.
func (g *Gate) History() []ConversationTurn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ConversationTurn(nil), g.turns...)
}

// State reports Idle or Awaiting without blocking on an in-flight turn.
func (g *Gate) State() int32 { return g.state.Load() }
