package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/layout"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

// maxGraphBytes bounds POST /api/graph bodies.
const maxGraphBytes = 64 << 20

func (s *Server) handleFrame(w http.ResponseWriter, _ *http.Request) {
	frame := s.animator.Frame()
	if frame == nil {
		frame = layout.Snapshot{}
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.animator.Stats())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.layouter.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if snap == nil {
		snap = layout.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	comps, err := s.layouter.Components(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if comps == nil {
		comps = [][]string{}
	}
	writeJSON(w, http.StatusOK, comps)
}

func (s *Server) handleLoadGraph(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGraphBytes))
	if err != nil {
		writeError(w, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read body"))
		return
	}
	g, err := graph.Parse(data, s.opts.LinkMap)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.ErrCodeInvalidGraph, err, "parse graph"))
		return
	}
	stats, err := s.opts.Load(r.Context(), g)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("graph loaded", "nodes", stats.Nodes, "edges", stats.Edges, "components", stats.Components)
	writeJSON(w, http.StatusOK, stats)
}

type positionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode position"))
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, apperr.New(apperr.ErrCodeInvalidInput, "x and y are required"))
		return
	}
	if err := s.animator.Drag(r.Context(), id, *req.X, *req.Y); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout.Position{ID: id, X: *req.X, Y: *req.Y})
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error *apperr.Wire `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorBody{Error: apperr.ToWire(err)})
}

// statusOf maps an error code to an HTTP status.
func statusOf(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, worker.ErrClosed) {
		return http.StatusServiceUnavailable
	}
	switch apperr.GetCode(err) {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidGraph:
		return http.StatusBadRequest
	case apperr.ErrCodeNotFound, apperr.ErrCodeUnknownNode, apperr.ErrCodeUnknownOp:
		return http.StatusNotFound
	case apperr.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperr.ErrCodeCanceled, apperr.ErrCodeClosed, apperr.ErrCodeNetwork:
		return http.StatusServiceUnavailable
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
