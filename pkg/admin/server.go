// Package admin exposes the operational control surface SPEC_FULL.md adds
// around the core cache: health, metrics, a snapshot of the directory, and
// entry deletion. It is deliberately separate from the raw proxy listener,
// which speaks no HTTP framing of its own on the server side.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/arishaaaaa/my-cache-proxy/pkg/cache"
	"github.com/arishaaaaa/my-cache-proxy/pkg/logging"
	"github.com/arishaaaaa/my-cache-proxy/pkg/metrics"
	"github.com/arishaaaaa/my-cache-proxy/pkg/middleware"
	"github.com/arishaaaaa/my-cache-proxy/pkg/routing"
)

// Server is the admin HTTP surface's handler set.
type Server struct {
	directory *cache.Directory
	metrics   *metrics.Counters
	log       logging.Logger
	mux       *routing.NormalizedServeMux
}

// New builds an admin Server routed over the cache directory and metrics
// given, wrapped with CORS handling.
func New(directory *cache.Directory, m *metrics.Counters, log logging.Logger) http.Handler {
	s := &Server{
		directory: directory,
		metrics:   m,
		log:       logging.ComponentLogger(log, "admin"),
		mux:       routing.NewNormalizedServeMux(),
	}
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/metrics", s.handleMetrics)
	s.mux.HandleFunc("/cache", s.handleCache)
	return middleware.CorsMiddleware(nil, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	if err := s.metrics.WriteTo(w); err != nil {
		s.log.Warnf("writing metrics failed: %v", err)
	}
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.directory.Snapshot())
	case http.MethodDelete:
		url := r.URL.Query().Get("url")
		if url == "" {
			http.Error(w, "missing url query parameter", http.StatusBadRequest)
			return
		}
		if err := s.directory.Delete(url); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
