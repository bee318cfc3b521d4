package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/uniquepaths/pkg/errors"
	"github.com/matzehuels/uniquepaths/pkg/graph"
	graphio "github.com/matzehuels/uniquepaths/pkg/io"
	"github.com/matzehuels/uniquepaths/pkg/store"
)

// maxListLimit caps GET /v1/runs.
const maxListLimit = 500

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := s.cfg.Options()

	var err error
	if opts.Start, err = errs.ParseNodeKey(q.Get("start")); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "start: %s", errs.UserMessage(err)))
		return
	}
	if opts.End, err = errs.ParseNodeKey(q.Get("end")); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "end: %s", errs.UserMessage(err)))
		return
	}
	if opts.Exact, err = queryBool(q.Get("exact")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Refresh, err = queryBool(q.Get("refresh")); err != nil {
		s.writeError(w, r, err)
		return
	}

	if name := q.Get("graph"); name != "" {
		opts.Input, err = s.graphPath(name)
	} else {
		opts.Graph, err = s.readBody(w, r)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Summary())
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}
	reports, err := s.runner.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reports == nil {
		reports = []*store.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.runner.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// readBody decodes the request body as a JSON edge document or an edge list.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (*graph.Graph[int], error) {
	body := r.Body
	if limit := s.cfg.Server.MaxBodyBytes; limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	defer body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return graphio.ReadJSON(body)
	}
	return graphio.ReadEdgeList(body)
}

// graphPath resolves a graph name inside the data directory.
func (s *Server) graphPath(name string) (string, error) {
	if s.cfg.Server.DataDir == "" {
		return "", errs.New(errs.ErrCodeInvalidInput, "named graphs are not enabled")
	}
	if err := errs.ValidatePath(name); err != nil {
		return "", err
	}
	if !filepath.IsLocal(name) {
		return "", errs.New(errs.ErrCodeInvalidInput, "graph name must be a relative path")
	}
	path := filepath.Join(s.cfg.Server.DataDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", errs.Wrap(errs.ErrCodeNotFound, err, "graph %q not found", name)
	}
	return path, nil
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid boolean %q", v)
	}
	return b, nil
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidConfig, errs.ErrCodeMalformedInput:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeNodeNotFound, errs.ErrCodeResourceExhausted:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: errs.UserMessage(err), Code: errs.GetCode(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "route", r.URL.Path, "error", err)
		resp.Error = "internal error"
	} else {
		s.logger.Debug("request rejected", "route", r.URL.Path, "status", status, "error", err)
	}
	if status == http.StatusRequestEntityTooLarge {
		resp.Error = "request body too large"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
