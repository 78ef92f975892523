// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pdiddy/paper-recommender/internal/fetch"
	"github.com/pdiddy/paper-recommender/internal/preference"
	"github.com/pdiddy/paper-recommender/internal/recommend"
	"github.com/pdiddy/paper-recommender/internal/session"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

type createSessionRequest struct {
	Query     string `json:"query" validate:"omitempty,max=512"`
	BatchSize int    `json:"batch_size" validate:"omitempty,min=1,max=100"`
}

type fetchRequest struct {
	Query string `json:"query" validate:"omitempty,max=512"`
}

type feedbackRequest struct {
	Link    string `json:"link" validate:"required"`
	Verdict string `json:"verdict" validate:"required,max=16"` // parsed by types.ParseVerdict
}

type fetchResponse struct {
	Papers    []types.Paper `json:"papers"`
	Query     string        `json:"query"`
	NextStart int           `json:"next_start"`
}

type feedbackResponse struct {
	Link        string                 `json:"link"`
	Verdict     types.Verdict          `json:"verdict"`
	Preferences []types.RankedCategory `json:"preferences"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	cfg := s.sessionCfg
	if req.Query != "" {
		cfg.Query = req.Query
	}
	if req.BatchSize > 0 {
		cfg.BatchSize = req.BatchSize
	}

	sess := session.New(uuid.NewString(), s.fetcher, cfg, s.logger)
	s.sessions.add(sess)
	s.metrics.SessionsActive.Inc()
	s.logger.Info().Str("session_id", sess.ID).Str("query", cfg.Query).Msg("session created")

	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	var snap session.Snapshot
	err := s.sessions.with(chi.URLParam(r, "sessionID"), func(sess *session.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.remove(id) {
		s.writeSessionError(w, ErrSessionNotFound)
		return
	}
	s.metrics.SessionsActive.Dec()
	s.logger.Info().Str("session_id", id).Msg("session ended")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fetchPapers(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if !s.decode(w, r, &req, true) {
		return
	}

	var resp fetchResponse
	err := s.sessions.with(chi.URLParam(r, "sessionID"), func(sess *session.Session) error {
		query := req.Query
		if query == "" {
			query = sess.Query()
		}
		papers, err := sess.FetchQuery(r.Context(), query)
		if err != nil {
			return err
		}
		resp = fetchResponse{Papers: papers, Query: sess.Query(), NextStart: sess.NextStart()}
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) recordFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	verdict, err := types.ParseVerdict(req.Verdict)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var resp feedbackResponse
	err = s.sessions.with(chi.URLParam(r, "sessionID"), func(sess *session.Session) error {
		if err := sess.ReviewLink(req.Link, verdict); err != nil {
			return err
		}
		resp = feedbackResponse{Link: req.Link, Verdict: verdict, Preferences: sess.Preferences()}
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.metrics.ObserveFeedback(verdict)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs []types.RankedCategory
	err := s.sessions.with(chi.URLParam(r, "sessionID"), func(sess *session.Session) error {
		prefs = sess.Preferences()
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": prefs})
}

func (s *Server) getLiked(w http.ResponseWriter, r *http.Request) {
	var liked []types.Paper
	err := s.sessions.with(chi.URLParam(r, "sessionID"), func(sess *session.Session) error {
		liked = sess.Liked()
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"liked": liked})
}

func (s *Server) generateRecommendations(w http.ResponseWriter, r *http.Request) {
	var res recommend.Result
	err := s.sessions.with(chi.URLParam(r, "sessionID"), func(sess *session.Session) error {
		res = sess.Recommend(r.Context())
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.metrics.ObserveRecommendation(res.NoPreferences)
	writeJSON(w, http.StatusOK, res)
}

// decode reads a JSON body into v and validates it. An empty body is
// accepted when optional is true. It writes the error response itself
// and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	switch {
	case errors.Is(err, io.EOF) && optional:
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeSessionError maps handler errors to HTTP status codes.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	var ne *fetch.NetworkError
	var pe *fetch.ParseError
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, session.ErrUnknownPaper):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, fetch.ErrInvalidRequest), errors.Is(err, preference.ErrInvalidVerdict):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ne):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error(), "kind": "network"})
	case errors.As(err, &pe):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error(), "kind": "parse"})
	default:
		s.logger.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
