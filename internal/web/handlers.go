package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/idilsaglam/todowidget/internal/view"
)

const maxBodyBytes = 64 << 10

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	body, ok := s.pages.Get(s.app.Revision())
	if !ok {
		rev, fresh, err := s.app.Snapshot()
		if err != nil {
			s.logger.Error("render page", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		s.pages.Add(rev, fresh)
		body = fresh
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

// handleFormSubmit is the no-script path: the browser posts the form and
// is sent back to the page.
func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := s.submit(r, r.PostForm.Get(view.InputName)); err != nil {
		http.Error(w, "submit failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.State())
}

type submitRequest struct {
	Todo string `json:"todo"`
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}
	if err := s.validateSubmit(raw); err != nil {
		var ve *validationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	var in submitRequest
	if err := json.Unmarshal(raw, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := s.submit(r, in.Todo); err != nil {
		writeError(w, http.StatusInternalServerError, "submit failed")
		return
	}
	writeJSON(w, http.StatusOK, s.app.State())
}

func (s *Server) submit(r *http.Request, value string) error {
	_, span := s.tracer.Start(r.Context(), "todo.submit")
	defer span.End()
	span.SetAttributes(attribute.Int("todo.length", len(value)))

	if err := s.app.Submit(value); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		s.logger.Error("submit", "err", err)
		return err
	}
	span.SetAttributes(attribute.Int64("todo.revision", int64(s.app.Revision())))
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
