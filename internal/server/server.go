package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridwen/QuestBoard_Go/internal/handler"
	"github.com/meridwen/QuestBoard_Go/internal/logger"
	"github.com/meridwen/QuestBoard_Go/internal/metrics"
	"github.com/meridwen/QuestBoard_Go/internal/quest"
	"github.com/meridwen/QuestBoard_Go/internal/stats"
)

type Server struct {
	httpServer   *http.Server
	questService quest.Service
	statsService stats.Service
}

// NewServer wires the middleware stack and API routes.
func NewServer(port int, apiKey string, trustedProxies []string, store handler.Pinger, questService quest.Service, statsService stats.Service) *Server {
	r := chi.NewRouter()

	// Middleware executes in the order defined, outermost first.
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Unversioned operational endpoints
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(store))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quests", handler.HandleListQuests(questService))
		r.Get("/stats", handler.HandleGetStats(statsService))

		r.Route("/quest", func(r chi.Router) {
			r.Post("/", handler.HandleCreateQuest(questService))
			r.Get("/", handler.HandleLookupQuest(questService))

			r.Route("/{questID}", func(r chi.Router) {
				r.Get("/", handler.HandleGetQuest(questService))
				r.Patch("/", handler.HandleUpdateQuest(questService))
				r.Delete("/", handler.HandleDeleteQuest(questService))
				r.Post("/join", handler.HandleJoinQuest(questService))
				r.Post("/leave", handler.HandleLeaveQuest(questService))
				r.Post("/kick", handler.HandleKickFromQuest(questService))
				r.Post("/complete", handler.HandleCompleteQuest(questService))
				r.Post("/cancel", handler.HandleCancelQuest(questService))
				r.Post("/embed", handler.HandleSetEmbedMessage(questService))
			})
		})

		r.Route("/guild/{guildID}", func(r chi.Router) {
			r.Get("/config", handler.HandleGetGuildConfig(questService))
			r.Put("/config", handler.HandlePutGuildConfig(questService))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		questService: questService,
		statsService: statsService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Operational endpoints are scraped constantly; keep them out of logs.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
