package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ottkit/streamd/internal/registry"
	"github.com/ottkit/streamd/internal/stream"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps registry errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnknownStream):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDuplicateStream):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListStreams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.List())
}

func (s *Server) handleConfigureStream(w http.ResponseWriter, r *http.Request) {
	var desc stream.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid stream descriptor: "+err.Error())
		return
	}
	if err := s.manager.Configure(r.Context(), desc); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": desc.ID})
}

func (s *Server) handleGetStream(w http.ResponseWriter, r *http.Request) {
	st, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStreamHistory(w http.ResponseWriter, r *http.Request) {
	if s.historian == nil {
		writeError(w, http.StatusNotFound, "history not available")
		return
	}

	id := chi.URLParam(r, "id")
	entries, err := s.historian.History(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type historyEntry struct {
		State string `json:"state"`
		At    int64  `json:"at"`
	}
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{State: e.State.String(), At: e.At.Unix()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStartStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.manager.Start(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "state": stream.StateRunning.String()})
}

func (s *Server) handleStopStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.manager.Stop(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "state": stream.StateCleanedUp.String()})
}

func (s *Server) handleRestartStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.manager.Restart(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleStreamLog(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid log request: "+err.Error())
		return
	}
	if _, err := url.ParseRequestURI(body.Path); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload url")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.manager.RequestLog(r.Context(), id, body.Path); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		License string `json:"license_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid activate request: "+err.Error())
		return
	}
	if body.License == "" {
		writeError(w, http.StatusBadRequest, "license_key is required")
		return
	}
	if err := s.manager.Activate(r.Context(), body.License); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "dispatched"})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.PingService(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "dispatched"})
}

func (s *Server) handleStopService(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delay uint64 `json:"delay"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid stop request: "+err.Error())
			return
		}
	}
	if err := s.manager.StopService(r.Context(), body.Delay); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "dispatched"})
}
