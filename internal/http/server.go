package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// Options tunes the response cache.
type Options struct {
	CacheTTL     time.Duration
	CacheMaxSize int
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.CacheMaxSize <= 0 {
		o.CacheMaxSize = 256
	}
	return o
}

type Server struct {
	http.Server
	store       store.Store
	importSvc   *services.ImportService
	budgetSvc   *services.BudgetService
	engine      *analytics.Engine
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	reqLog      *applog.StructuredLogger

	// Cached analytics responses, keyed per user so writes can invalidate
	// everything that user sees.
	analyticsCache *cache.LRUCache[[]byte]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, st store.Store, importSvc *services.ImportService, budgetSvc *services.BudgetService, engine *analytics.Engine, opts Options) *Server {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	httpLogger := applog.New(applog.Config{Component: applog.ComponentHTTP})
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(httpLogger)(mux),
		},
		store:          st,
		importSvc:      importSvc,
		budgetSvc:      budgetSvc,
		engine:         engine,
		rateLimiter:    newRateLimiter(),
		metrics:        &securityMetrics{},
		reqLog:         applog.NewStructuredLogger(httpLogger),
		analyticsCache: cache.NewLRUCache[[]byte](opts.CacheMaxSize, opts.CacheTTL),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.analyticsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/{month}", s.withMiddleware(s.handleListTransactionsByMonth))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/upload/csv", s.withMiddleware(s.handleUploadCSV))

	mux.HandleFunc("GET /api/budget/{month}", s.withMiddleware(s.handleGetBudget))
	mux.HandleFunc("POST /api/budget", s.withMiddleware(s.handleSetBudget))
	mux.HandleFunc("POST /api/budget/recommendation", s.withMiddleware(s.handleRecommendation))

	mux.HandleFunc("GET /api/analytics/summary/{month}", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("GET /api/analytics/breakdown/{month}", s.withMiddleware(s.handleBreakdown))
	mux.HandleFunc("GET /api/analytics/comparison/{months}", s.withMiddleware(s.handleComparison))

	mux.HandleFunc("GET /api/user/settings", s.withMiddleware(s.handleGetSettings))
	mux.HandleFunc("POST /api/user/settings", s.withMiddleware(s.handleUpdateSettings))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.reqLog.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request detected",
				"request_id", requestID, "client_ip", clientIP, "url", r.URL.Path)
		}

		// Rate limit writes only; analytics reads are cache-friendly.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.reqLog.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
