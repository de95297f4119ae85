package main

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/portal-mafia/mafia/match"
	"github.com/gosuda/portal-mafia/mafia/store"
)

const authHeader = "X-Mafia-Key"

// HTTPServer wires HTTP routes to the table manager.
type HTTPServer struct {
	mgr      *TableManager
	authKey  string
	upgrader websocket.Upgrader
}

// NewHTTPServer constructs an HTTPServer. An empty authKey leaves /ws open.
func NewHTTPServer(mgr *TableManager, authKey string) *HTTPServer {
	return &HTTPServer{
		mgr:     mgr,
		authKey: authKey,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router serves both the Portal relay listener and the optional local port.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/ws", s.handleWebSocket)
	r.Get("/queue", s.handleQueue)
	r.Get("/matches", s.handleMatches)
	r.Get("/matches/{id}", s.handleMatch)
	return r
}

func (s *HTTPServer) authorized(r *http.Request) bool {
	if s.authKey == "" {
		return true
	}
	got := r.Header.Get(authHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.authKey)) == 1
}

func (s *HTTPServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user := sanitizeName(r.URL.Query().Get("user"))
	if user == "" {
		http.Error(w, "missing user", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("upgrade websocket")
		return
	}

	client := NewClient(user, conn, s.mgr)
	if err := s.mgr.Attach(client); err != nil {
		_ = conn.Close()
		log.Warn().Err(err).Str("user", user).Msg("attach failed")
		return
	}

	go client.writeLoop()
	client.readLoop()
}

func (s *HTTPServer) handleQueue(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, s.mgr.QueueState())
}

func (s *HTTPServer) handleMatches(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.mgr.Matches()
	if err != nil {
		log.Error().Err(err).Msg("[mafia] list matches")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSONResponse(w, http.StatusOK, ids)
}

func (s *HTTPServer) handleMatch(w http.ResponseWriter, r *http.Request) {
	rec, err := s.mgr.Lookup(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("[mafia] lookup match")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, http.StatusOK, publicRecord(rec))
}

// publicRecord hides the cards while the match is undecided.
func publicRecord(rec store.Record) store.Record {
	if rec.Snapshot.Outcome != match.Undecided {
		return rec
	}
	seats := make([]match.SeatState, len(rec.Snapshot.Seats))
	for i, s := range rec.Snapshot.Seats {
		s.Role = ""
		seats[i] = s
	}
	rec.Snapshot.Seats = seats
	return rec
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write json response")
	}
}
