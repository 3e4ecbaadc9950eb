package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/junnyboy28/InteGreatai/internal/builder"
	"github.com/junnyboy28/InteGreatai/internal/collection"
	"github.com/junnyboy28/InteGreatai/internal/executor"
	"github.com/junnyboy28/InteGreatai/internal/types"
	"github.com/junnyboy28/InteGreatai/internal/urlutil"
)

// maxBodyBytes caps decoded request bodies
const maxBodyBytes = 10 << 20

// ExportRequest is the body of POST /api/export-collection
type ExportRequest struct {
	Name      string           `json:"name"`
	BaseURL   string           `json:"base_url"`
	Endpoints []types.Endpoint `json:"endpoints"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTestEndpoint(w http.ResponseWriter, r *http.Request) {
	var req types.RequestDescriptor
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	req.Method = types.NormalizeMethod(req.Method)
	if !types.IsSupportedMethod(req.Method) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported HTTP method: %s", req.Method))
		return
	}
	if _, err := urlutil.ParseAbsolute(req.URL); err != nil {
		writeErr(w, &builder.InvalidURLError{URL: req.URL, Cause: err})
		return
	}

	env, err := s.exec.Execute(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleExportCollection(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	doc, err := s.exporter.Export(req.Endpoints, req.Name, req.BaseURL)
	if err != nil {
		writeErr(w, err)
		return
	}

	data, err := collection.Marshal(doc)
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", collection.FileName(doc.Info.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleEndpoints(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, http.StatusNotFound, "No catalog loaded")
		return
	}
	writeJSON(w, http.StatusOK, s.catalog)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(err error) int {
	var (
		bodyErr   *builder.InvalidRequestBodyError
		urlErr    *builder.InvalidURLError
		exportErr *collection.ExportError
		execErr   *executor.ExecutionError
	)
	switch {
	case errors.As(err, &bodyErr), errors.As(err, &urlErr):
		return http.StatusBadRequest
	case errors.As(err, &exportErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &execErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, err error) {
	var execErr *executor.ExecutionError
	if errors.As(err, &execErr) {
		writeError(w, http.StatusBadGateway, "Failed to test endpoint: "+execErr.Message)
		return
	}
	writeError(w, StatusFor(err), err.Error())
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
