package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"finhealth/internal/cache"
	"finhealth/internal/insights"
	"finhealth/internal/log"
	"finhealth/internal/services"
	"finhealth/internal/storage"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ReportPublisher enqueues asynchronous narration jobs. Satisfied by the
// AMQP client; nil means the report endpoint always narrates inline.
type ReportPublisher interface {
	PublishReportRequest(ctx context.Context, analysisID, language string) error
}

// Server is the JSON API over the analysis pipeline.
type Server struct {
	http.Server

	analysis  *services.AnalysisService
	storage   *storage.Repository
	narrator  insights.Narrator
	publisher ReportPublisher
	logger    *log.Logger

	rateLimiter  *rateLimiter
	insightCache *cache.LRU[string]

	shutdownOnce sync.Once
}

// Options carries the server's collaborators and cache tuning.
type Options struct {
	Addr             string
	Analysis         *services.AnalysisService
	Storage          *storage.Repository
	Narrator         insights.Narrator
	Publisher        ReportPublisher
	Logger           *log.Logger
	InsightCacheSize int
	InsightCacheTTL  time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options) *Server {
	if opts.InsightCacheSize <= 0 {
		opts.InsightCacheSize = 100
	}
	if opts.InsightCacheTTL <= 0 {
		opts.InsightCacheTTL = 10 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		analysis:     opts.Analysis,
		storage:      opts.Storage,
		narrator:     opts.Narrator,
		publisher:    opts.Publisher,
		logger:       opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter:  newRateLimiter(),
		insightCache: cache.NewLRU[string](opts.InsightCacheSize, opts.InsightCacheTTL),
	}

	mux.HandleFunc("/upload", s.withMiddleware(s.handleUpload))
	mux.HandleFunc("/analyze", s.withMiddleware(s.handleAnalyze))
	mux.HandleFunc("/insights", s.withMiddleware(s.handleInsights))
	mux.HandleFunc("/report", s.withMiddleware(s.handleReport))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withMiddleware adds request IDs, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := clientIPOf(r)

		requestID := uuid.New().String()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRequestID, requestID, "client_ip", clientIP)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// rateLimiter is a simple in-memory per-client limiter: 60 POSTs a minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}
