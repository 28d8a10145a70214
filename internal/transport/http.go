package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/metrics"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, p access.Principal, sessionID, method string, params json.RawMessage) (any, error)
}

// codedError is implemented by errors carrying a client-facing code.
type codedError interface {
	error
	CodeValue() string
	MessageValue() string
	DetailsValue() any
	RecoveryHintValue() string
}

// Options configures the HTTP router.
type Options struct {
	// Auth guards /rpc. Nil leaves it open; pair it with StaticPrincipal.
	Auth func(http.Handler) http.Handler
	// MCP serves the streamable MCP endpoint when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	srv := &Server{handler: handler, logger: opts.Logger}

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Use(SessionMiddleware)
		r.Method(http.MethodPost, "/rpc", metrics.Instrument("/rpc", http.HandlerFunc(srv.handleRPC)))
	})

	if opts.MCP != nil {
		mcp := metrics.Instrument("/mcp", opts.MCP)
		r.Handle("/mcp", mcp)
		r.Handle("/mcp/*", mcp)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	p, ok := PrincipalFromContext(r.Context())
	if !ok || p.TenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	sessionID, _ := SessionIDFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), p, sessionID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var coded codedError
		if errors.As(err, &coded) {
			code := ErrApplication
			if coded.CodeValue() == "METHOD_NOT_FOUND" {
				code = ErrMethodNotFound
			}
			WriteError(w, req.ID, code, coded.MessageValue(), ErrorData{
				Code:         coded.CodeValue(),
				Details:      coded.DetailsValue(),
				RecoveryHint: coded.RecoveryHintValue(),
			})
			return
		}
		s.logger.Error("rpc failed", "method", req.Method, "error", err)
		WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}
