package server

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rshade/footprint/internal/chat"
	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// calculateRequest is the body of the calculation endpoints.
type calculateRequest struct {
	Answers footprint.AnswerSet `json:"answers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/questions", s.handleQuestions).Methods(http.MethodGet)
	api.HandleFunc("/calculate", s.handleCalculate).Methods(http.MethodPost)
	api.HandleFunc("/calculate/summary", s.handleSummary).Methods(http.MethodPost)

	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/chat/{session_id}", s.handleForget).Methods(http.MethodDelete)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	writeJSON(w, http.StatusOK, s.engine.Store().Shuffled(rng))
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	rs, err := s.engine.Calculate(req.Answers)
	if err != nil {
		s.metrics.calculation("breakdown", 0, 0, err)
		logging.FromContext(r.Context()).Error().Err(err).Msg("calculation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.calculation("breakdown", rs.TotalEmissions, rs.Skipped(), nil)
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	summary, err := s.summary.Summarize(req.Answers)
	if err != nil {
		s.metrics.calculation("summary", 0, 0, err)
		logging.FromContext(r.Context()).Error().Err(err).Msg("summary failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.calculation("summary", summary.Total, 0, nil)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		s.metrics.chatReply("disabled")
		writeJSON(w, http.StatusServiceUnavailable, chat.Reply{Message: chat.ErrDisabled.Error()})
		return
	}

	var req chat.Request
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, chat.Reply{Message: err.Error()})
		return
	}

	reply, err := s.chat.Reply(r.Context(), req)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		s.metrics.chatReply("rejected")
		writeJSON(w, http.StatusBadRequest, chat.Reply{Message: err.Error(), SessionID: req.SessionID})
	case errors.Is(err, chat.ErrUpstream):
		s.metrics.chatReply("upstream_error")
		writeJSON(w, http.StatusBadGateway, reply)
	case err != nil:
		s.metrics.chatReply("error")
		writeJSON(w, http.StatusInternalServerError, chat.Reply{Message: err.Error()})
	default:
		s.metrics.chatReply("ok")
		writeJSON(w, http.StatusOK, reply)
	}
}

func (s *Server) handleForget(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: chat.ErrDisabled.Error()})
		return
	}

	err := s.chat.Forget(mux.Vars(r)["session_id"])
	switch {
	case errors.Is(err, session.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
