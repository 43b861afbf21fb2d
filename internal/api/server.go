// Package api exposes the optimization pipeline over HTTP.
//
// The server is a thin JSON layer over [pipeline.Runner]: one endpoint that
// accepts a network document plus options and returns the optimized network
// with any requested artifacts. All caching behavior lives in the runner.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tkoenig/sopnet/pkg/errors"
	"github.com/tkoenig/sopnet/pkg/network"
	"github.com/tkoenig/sopnet/pkg/pipeline"
)

// RequestIDHeader carries the request id assigned by the server.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps request body size. Network documents are text-heavy but
// even large designs stay well under this.
const maxBodyBytes = 32 << 20

// Server serves the optimization API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around a pipeline runner.
// A nil logger falls back to the default logger.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/optimize", s.handleOptimize)
	return r
}

// requestID tags every request with a UUID for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// optimizeRequest is the request body for POST /v1/optimize.
type optimizeRequest struct {
	Network     json.RawMessage `json:"network"`
	MaxNewNodes int             `json:"max_new_nodes,omitempty"`
	MinSaving   int             `json:"min_saving,omitempty"`
	Formats     []string        `json:"formats,omitempty"`
	Detailed    bool            `json:"detailed,omitempty"`
	Refresh     bool            `json:"refresh,omitempty"`
}

// optimizeResponse is the response body for POST /v1/optimize.
type optimizeResponse struct {
	Changed     bool              `json:"changed"`
	NetworkHash string            `json:"network_hash"`
	Network     json.RawMessage   `json:"network"`
	Stats       statsDoc          `json:"stats"`
	CacheInfo   cacheInfoDoc      `json:"cache_info"`
	Artifacts   map[string][]byte `json:"artifacts,omitempty"`
}

type statsDoc struct {
	Nodes          int `json:"nodes"`
	LiteralsBefore int `json:"literals_before"`
	LiteralsAfter  int `json:"literals_after"`
}

type cacheInfoDoc struct {
	OptimizeHit bool `json:"optimize_hit"`
	ExportHit   bool `json:"export_hit"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Network) == 0 {
		writeError(w, http.StatusBadRequest, "network is required")
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Input:       req.Network,
		MaxNewNodes: req.MaxNewNodes,
		MinSaving:   req.MinSaving,
		Formats:     req.Formats,
		Detailed:    req.Detailed,
		Refresh:     req.Refresh,
		Logger:      s.logger,
	})
	if err != nil {
		s.logger.Error("optimize failed", "err", err)
		writeError(w, statusForError(err), errors.UserMessage(err))
		return
	}

	resp := optimizeResponse{
		Changed:     result.Changed,
		NetworkHash: result.NetworkHash,
		Stats: statsDoc{
			Nodes:          result.Stats.NodeCount,
			LiteralsBefore: result.Stats.LiteralsBefore,
			LiteralsAfter:  result.Stats.LiteralsAfter,
		},
		CacheInfo: cacheInfoDoc{
			OptimizeHit: result.CacheInfo.OptimizeHit,
			ExportHit:   result.CacheInfo.ExportHit,
		},
		Artifacts: result.Artifacts,
	}
	if data, err := network.MarshalNetwork(result.Network); err == nil {
		resp.Network = data
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusForError maps pipeline error codes onto HTTP status codes.
func statusForError(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeNotFound,
		code == errors.ErrCodeFileNotFound,
		code == errors.ErrCodeNodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodePreconditionFanins,
		code == errors.ErrCodeConversionFailed:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeInvalidInput,
		code == errors.ErrCodeInvalidNetwork,
		code == errors.ErrCodeInvalidCover,
		code == errors.ErrCodeInvalidFormat,
		code == errors.ErrCodeInvalidLimit:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
