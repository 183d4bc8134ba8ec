// Package http implements the JSON API consumed by the back-office
// front end: student pipeline operations, the payment ledger, the
// notification bell and health checks.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/afcalink/afcalink-backoffice/internal/application/command"
	"github.com/afcalink/afcalink-backoffice/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server settings.
type Config struct {
	Host string
	Port int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	EnableCORS     bool
	AllowedOrigins []string
}

// DefaultConfig binds all interfaces on 8080 with open CORS, which the
// deployment narrows through HTTP_ALLOWED_ORIGINS.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
	}
}

// Address returns the bind address in "host:port" form.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// HealthChecker reports backing-store health for the health endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies carries the command and query handlers the routes dispatch
// to. Handlers left nil make their routes panic on first use, so wiring
// mistakes surface immediately in development.
type Dependencies struct {
	CreateStudent        *command.CreateStudentHandler
	UpdateStudent        *command.UpdateStudentHandler
	DeleteStudent        *command.DeleteStudentHandler
	SetStudentStatus     *command.SetStudentStatusHandler
	SetStudentFinancial  *command.SetStudentFinancialHandler
	RecordPayment        *command.RecordPaymentHandler
	ConfirmPayment       *command.ConfirmPaymentHandler
	MarkNotificationRead *command.MarkNotificationReadHandler
	CreateUser           *command.CreateUserHandler

	GetStudent        *query.GetStudentHandler
	ListStudents      *query.ListStudentsHandler
	StudentHistory    *query.StudentHistoryHandler
	ComputeBalance    *query.ComputeBalanceHandler
	ListPayments      *query.ListPaymentsHandler
	ListStatuses      *query.ListStatusesHandler
	ListNotifications *query.ListNotificationsHandler

	// HealthChecker is usually the postgres connection.
	HealthChecker HealthChecker

	Logger *slog.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server owns the mux, the middleware chain and the listener lifecycle.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	logger     *slog.Logger
}

// NewServer assembles routes and middleware. The server does not listen
// until Start.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: http.NewServeMux(),
		logger: deps.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.middleware(s.router),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}
	return s
}

func (s *Server) registerRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /live", s.handleLive)
	s.router.HandleFunc("GET /", s.handleRoot)

	// ─────────────────────────────────────────────────────────────────────────
	// Pipeline statuses
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/statuses", s.handleListStatuses)

	// ─────────────────────────────────────────────────────────────────────────
	// Students
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/students", s.handleCreateStudent)
	s.router.HandleFunc("GET /api/v1/students", s.handleListStudents)
	s.router.HandleFunc("GET /api/v1/students/{id}", s.handleGetStudent)
	s.router.HandleFunc("PUT /api/v1/students/{id}", s.handleUpdateStudent)
	s.router.HandleFunc("DELETE /api/v1/students/{id}", s.handleDeleteStudent)
	s.router.HandleFunc("POST /api/v1/students/{id}/status", s.handleSetStudentStatus)
	s.router.HandleFunc("GET /api/v1/students/{id}/history", s.handleStudentHistory)
	s.router.HandleFunc("PUT /api/v1/students/{id}/financial", s.handleSetStudentFinancial)
	s.router.HandleFunc("GET /api/v1/students/{id}/balance", s.handleComputeBalance)
	s.router.HandleFunc("GET /api/v1/students/{id}/payments", s.handleListStudentPayments)

	// ─────────────────────────────────────────────────────────────────────────
	// Payment ledger
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/payments", s.handleRecordPayment)
	s.router.HandleFunc("GET /api/v1/payments", s.handleListPayments)
	s.router.HandleFunc("POST /api/v1/payments/{id}/confirm", s.handleConfirmPayment)

	// ─────────────────────────────────────────────────────────────────────────
	// Notifications
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/notifications", s.handleListNotifications)
	s.router.HandleFunc("GET /api/v1/notifications/unread-count", s.handleUnreadCount)
	s.router.HandleFunc("POST /api/v1/notifications/{id}/read", s.handleMarkNotificationRead)
	s.router.HandleFunc("POST /api/v1/notifications/read-all", s.handleMarkAllNotificationsRead)

	// ─────────────────────────────────────────────────────────────────────────
	// Users
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/users", s.handleCreateUser)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// middleware wraps the router. Outermost first: CORS, then recovery, then
// request logging, then acting-user extraction.
func (s *Server) middleware(handler http.Handler) http.Handler {
	h := s.actingUser(handler)
	h = s.requestLog(h)
	h = s.recovery(h)
	if s.config.EnableCORS {
		h = s.cors(h)
	}
	return h
}

// actingUser reads the acting back-office user from the fronting identity
// layer. Session handling lives there; this service only records who
// acted. A malformed header is treated as absent.
func (s *Server) actingUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get("X-Acting-User"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				r = r.WithContext(context.WithValue(r.Context(), contextKeyActingUser, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", clientIP(r),
		)
	})
}

// recovery turns a handler panic into a 500 instead of killing the
// connection.
func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		for _, o := range s.config.AllowedOrigins {
			if o != "*" && o != origin {
				continue
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Acting-User")
			w.Header().Set("Access-Control-Max-Age", "86400")
			break
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start blocks on ListenAndServe. A graceful Shutdown makes it return nil.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "address", s.config.Address())

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the configured bind address.
func (s *Server) Address() string {
	return s.config.Address()
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse is the envelope every endpoint returns: either Data on
// success or Error on failure, never both.
type JSONResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError pairs a stable machine code with a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{
		Error: &APIError{Code: code, Message: message},
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TYPES AND FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const contextKeyActingUser contextKey = "acting_user"

// actingUserID returns the acting user from the request context, when the
// fronting layer supplied one.
func actingUserID(ctx context.Context) *int64 {
	if id, ok := ctx.Value(contextKeyActingUser).(int64); ok {
		return &id
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// clientIP prefers the proxy headers the deployment sets, falling back to
// the socket address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// pathID parses the {id} path segment as a positive int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func getQueryParamBool(r *http.Request, key string) bool {
	value := strings.ToLower(r.URL.Query().Get(key))
	return value == "true" || value == "1" || value == "yes"
}

func getQueryParamInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
