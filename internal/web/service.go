// Package web serves a read-only spectator feed of engine snapshots.
package web

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/justinabrahms/chessrules/internal/chess"
	"github.com/rs/zerolog/log"
)

// Service keeps the latest published summary and fans it out to
// spectators. It never holds a reference to the engine.
type Service struct {
	hub *Hub

	mu     sync.RWMutex
	latest *chess.Summary
}

func NewService(hub *Hub) *Service {
	return &Service{hub: hub}
}

// Observe records sum as the latest state and broadcasts it.
func (s *Service) Observe(sum chess.Summary) {
	s.mu.Lock()
	s.latest = &sum
	s.mu.Unlock()

	s.hub.Broadcast(Update{Type: "state", Data: sum})
}

// Latest returns the most recently observed summary.
func (s *Service) Latest() (chess.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return chess.Summary{}, false
	}
	return *s.latest, true
}

// Router wires the spectator endpoints.
func (s *Service) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/state", s.StateHandler).Methods("GET", "OPTIONS")
	router.HandleFunc("/ws", s.WebSocketHandler)
	return router
}

// corsMiddleware lets browser dashboards on other origins poll the feed.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StateHandler returns the latest summary, or 404 before the first one.
func (s *Service) StateHandler(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.Latest()
	if !ok {
		http.Error(w, "No game state published yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
