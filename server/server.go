// Package server exposes the assistant over HTTP: a websocket chat
// endpoint with streamed responses, plus small JSON endpoints for the
// stored user facts and session saves.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/mnemo-ai/mnemo/assistant"
)

// Server serves one assistant instance. The assistant owns a single
// conversation buffer, so this is a single-session deployment; a
// multi-session server would create one assistant per connection.
type Server struct {
	assistant *assistant.Assistant
	upgrader  websocket.Upgrader
}

// New creates a Server.
func New(a *assistant.Assistant) *Server {
	return &Server{
		assistant: a,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	r.Get("/v1/facts", s.handleFacts)
	r.Post("/v1/session/save", s.handleSaveSession)
	return r
}

// Run starts the HTTP server on addr and blocks.
func (s *Server) Run(addr string) error {
	log.Printf("[SERVER] Listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"session": s.assistant.Summary(),
	})
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	facts := s.assistant.Memory().UserFacts(r.Context(),
		r.URL.Query().Get("query"), r.URL.Query().Get("category"))
	if facts == nil {
		facts = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"facts": facts})
}

func (s *Server) handleSaveSession(w http.ResponseWriter, _ *http.Request) {
	path, err := s.assistant.SaveSession()
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"path": path})
}

// inbound is a client chat frame.
type inbound struct {
	Message string `json:"message"`
}

// outbound is a server chat frame. Type is "chunk" while the response
// streams, then "done" with the full text, or "error".
type outbound struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SERVER] Websocket read failed: %v", err)
			}
			return
		}
		if in.Message == "" {
			continue
		}

		reply, err := s.assistant.Respond(r.Context(), in.Message, func(chunk string) {
			if err := conn.WriteJSON(outbound{Type: "chunk", Content: chunk}); err != nil {
				log.Printf("[SERVER] Websocket write failed: %v", err)
			}
		})
		if err != nil {
			conn.WriteJSON(outbound{Type: "error", Content: err.Error()})
			continue
		}
		if err := conn.WriteJSON(outbound{Type: "done", Content: reply}); err != nil {
			log.Printf("[SERVER] Websocket write failed: %v", err)
			return
		}
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[SERVER] Failed to encode response: %v", err)
	}
}
