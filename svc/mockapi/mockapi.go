package mockapi

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seeshare/metrics"
	"seeshare/svc/util"
)

// Server is an in-memory stand-in for the sharing service, used by the
// seemock dev binary and by client tests. It implements the documented
// endpoint set with deterministic slugs and counts every request so
// tests can assert that a pipeline stage issued no network calls.
type Server struct {
	mu      sync.Mutex
	apiKey  string
	domains []string
	tags    []tag

	seq    int
	shorts map[string]shortRec
	texts  map[string]textRec
	files  map[string]fileRec

	requests map[string]int
}

type tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type shortRec struct {
	TargetURL string
	Title     string
}

type textRec struct {
	Content string
	Title   string
}

type fileRec struct {
	StoreName string
	FileName  string
	Size      int64
	FileID    int64
	Private   bool
	CreatedAt int64
}

func New(apiKey string, domains []string) *Server {
	if len(domains) == 0 {
		domains = []string{"s.ee"}
	}
	return &Server{
		apiKey:  apiKey,
		domains: domains,
		tags: []tag{
			{ID: 1, Name: "work"},
			{ID: 2, Name: "personal"},
		},
		shorts:   make(map[string]shortRec),
		texts:    make(map[string]textRec),
		files:    make(map[string]fileRec),
		requests: make(map[string]int),
	}
}

// RequestCount reports how many requests hit a path, "" meaning all.
func (s *Server) RequestCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "" {
		total := 0
		for _, n := range s.requests {
			total += n
		}
		return total
	}
	return s.requests[path]
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(s.count)
		r.Use(s.auth)
		r.Post("/shorten", s.createShort)
		r.Put("/shorten", s.updateShort)
		r.Delete("/shorten", s.deleteShort)
		r.Get("/domains", s.listDomains)
		r.Get("/link/visit-stat", s.visitStat)
		r.Get("/tags", s.listTags)
		r.Post("/text", s.createText)
		r.Put("/text", s.updateText)
		r.Delete("/text", s.deleteText)
		r.Get("/text/domains", s.listDomains)
		r.Post("/file/upload", s.uploadFile)
		r.Get("/file/delete/{hash}", s.deleteFile)
		r.Get("/file/domains", s.listDomains)
		r.Get("/files", s.fileHistory)
		r.Get("/file/private/download-url", s.privateDownloadURL)
		r.Get("/usage", s.usage)
	})
	return r
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.mu.Unlock()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = util.NewRequestID()
		}
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(util.SetRequestID(r.Context(), requestID)))
		metrics.MockRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		util.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Str("request_id", requestID).
			Msg("mock request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.apiKey)) != 1 {
			writeErr(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) nextSlug() string {
	s.seq++
	return fmt.Sprintf("m%04d", s.seq)
}

func (s *Server) defaultDomain() string {
	return s.domains[0]
}

func (s *Server) hasDomain(d string) bool {
	for _, known := range s.domains {
		if known == d {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"code":    0,
		"data":    data,
		"message": "ok",
	})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"code":    status,
		"message": msg,
	})
}
