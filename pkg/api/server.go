package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/log"
	"github.com/rubiojr/seekr/pkg/realtime"
	"github.com/rubiojr/seekr/pkg/search"
)

var logger = log.ForService("api")

// Store is what the server needs from storage: the search backend plus
// whole-store statistics.
type Store interface {
	search.Backend
	Stats(ctx context.Context) (core.Stats, error)
}

type Server struct {
	store    Store
	service  *search.Service
	hub      *realtime.Hub
	opts     search.Options
	upgrader websocket.Upgrader
}

// NewServer wires the REST and WebSocket handlers. hub may be nil, in which
// case live sessions never refresh on their own.
func NewServer(store Store, hub *realtime.Hub, opts search.Options) *Server {
	return &Server{
		store:   store,
		service: search.NewService(store, opts),
		hub:     hub,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
