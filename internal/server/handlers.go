package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/genehive/genehive/pkg/buildinfo"
	"github.com/genehive/genehive/pkg/errors"
	"github.com/genehive/genehive/pkg/layout"
	"github.com/genehive/genehive/pkg/pedigree"
	"github.com/genehive/genehive/pkg/pipeline"
	"github.com/genehive/genehive/pkg/risk"
	"github.com/genehive/genehive/pkg/snapshot"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "genehive API is running",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// simulateRequest is the body of POST /api/simulate and /api/layout.
type simulateRequest struct {
	Members []snapshot.Member `json:"members"`

	// Diseases overrides the server catalog when present.
	Diseases []pedigree.Disease `json:"diseases,omitempty"`

	// Layout overrides the default spacing configuration.
	Layout *layout.Config `json:"layout,omitempty"`

	SkipLayout bool `json:"skip_layout,omitempty"`
	Refresh    bool `json:"refresh,omitempty"`
}

// simulateResponse mirrors pipeline.Result plus the updated members
// (scores and positions applied) and a timestamp.
type simulateResponse struct {
	Risks     []risk.Result      `json:"risks,omitempty"`
	Summary   pipeline.Summary   `json:"summary"`
	Layout    layout.Result      `json:"layout"`
	Members   []snapshot.Member  `json:"members"`
	TreeHash  string             `json:"tree_hash"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
	Timestamp string             `json:"timestamp"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, false)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, true)
}

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, layoutOnly bool) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Members) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "members must not be empty"))
		return
	}

	diseases := req.Diseases
	if len(diseases) == 0 {
		var err error
		if diseases, err = s.catalog.List(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}

	snap := snapshot.Snapshot{Version: snapshot.SchemaVersion, Members: req.Members, Diseases: diseases}
	g, err := snap.Graph()
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Diseases:   diseases,
		SkipLayout: req.SkipLayout,
		Refresh:    req.Refresh,
		Logger:     s.logger,
	}
	if req.Layout != nil {
		opts.Layout = *req.Layout
	}

	if layoutOnly {
		lay, err := s.runner.Layout(r.Context(), g, opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.setWorkspace(snapshot.FromGraph(g, diseases))
		writeJSON(w, http.StatusOK, simulateResponse{
			Layout:    lay,
			Members:   snapshot.FromGraph(g, nil).Members,
			TreeHash:  pipeline.TreeHash(g),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setWorkspace(snapshot.FromGraph(g, diseases))
	writeJSON(w, http.StatusOK, simulateResponse{
		Risks:     result.Risks,
		Summary:   result.Summary,
		Layout:    result.Layout,
		Members:   snapshot.FromGraph(g, nil).Members,
		TreeHash:  result.TreeHash,
		CacheInfo: result.CacheInfo,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDiseases(w http.ResponseWriter, r *http.Request) {
	diseases, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"diseases": diseases})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var snap snapshot.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if snap.Version == "" {
		snap.Version = snapshot.SchemaVersion
	}
	// Validate before handing the document to the user.
	if _, err := snap.Graph(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot.NewExport(snap, time.Now()))
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	infos, err := s.trees.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trees": infos})
}

func (s *Server) handleLoadTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.trees.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSaveTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var snap snapshot.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if snap.Version == "" {
		snap.Version = snapshot.SchemaVersion
	}
	if _, err := snap.Graph(); err != nil {
		s.writeError(w, err)
		return
	}
	snap.Name = name

	if err := s.trees.Save(r.Context(), name, snap); err != nil {
		s.writeError(w, err)
		return
	}
	s.setWorkspace(snap)
	writeJSON(w, http.StatusOK, map[string]string{"name": name, "status": "saved"})
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.trees.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps error codes to HTTP status and writes the standard
// error envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		status = http.StatusBadRequest
	case strings.HasSuffix(string(code), "_NOT_FOUND") || code == errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}

	msg := errors.UserMessage(err)
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": msg,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
