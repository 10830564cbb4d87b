package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/Barkoczy/discord-minesweeper/game/service"
	"github.com/Barkoczy/discord-minesweeper/game/session"
	"github.com/Barkoczy/discord-minesweeper/transport/websocket"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	log     logrus.FieldLogger
}

// NewServer creates a new API server. hub may be nil, in which case no live
// updates are pushed and /ws is not served.
func NewServer(gameService service.GameService, hub *websocket.Hub, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		log:     log.WithField("component", "api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/games", s.handleStartGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{player}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{player}", s.handleEndGame).Methods("DELETE")
	api.HandleFunc("/games/{player}/reveal", s.handleReveal).Methods("POST")

	api.HandleFunc("/settings", s.handleSettings).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrOwnership):
		return http.StatusForbidden
	case errors.Is(err, session.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidPlayer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			// The upgrader needs the raw writer.
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

func (s *Server) broadcast(msg websocket.Message) {
	if s.hub != nil {
		s.hub.Broadcast(msg)
	}
}

// Game Handlers

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	game, err := s.service.StartGame(r.Context(), req.PlayerID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	board := game.Board
	s.broadcast(websocket.Message{
		PlayerID: game.Player,
		GameID:   game.GameID,
		Event:    websocket.EventStart,
		Message:  game.Message,
		Board:    &board,
	})

	respondJSON(w, http.StatusCreated, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	player := mux.Vars(r)["player"]

	game, err := s.service.GetGame(r.Context(), player)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, game)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	player := mux.Vars(r)["player"]

	if err := s.service.EndGame(r.Context(), player); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(websocket.Message{PlayerID: player, Event: websocket.EventEnded})

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game of %s ended", player),
	})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	player := mux.Vars(r)["player"]

	var body struct {
		X           *int   `json:"x"`
		Y           *int   `json:"y"`
		GameID      string `json:"game_id,omitempty"`
		RequesterID string `json:"requester_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.X == nil || body.Y == nil {
		respondError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	result, err := s.service.Reveal(r.Context(), service.RevealRequest{
		Player:    player,
		Requester: body.RequesterID,
		GameID:    body.GameID,
		X:         *body.X,
		Y:         *body.Y,
	})
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	if result.Outcome != engine.Rejected {
		event := websocket.EventReveal
		if result.GameOver {
			event = websocket.EventFinished
		}
		outcome := result.Outcome
		board := result.Board
		s.broadcast(websocket.Message{
			PlayerID: result.Player,
			GameID:   result.GameID,
			Event:    event,
			Outcome:  &outcome,
			Message:  result.Message,
			Board:    &board,
		})
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Settings())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, r.URL.Query().Get("player"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
