package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/listview/internal/domain/access"
)

type contextKey int

const (
	principalKey contextKey = iota
	sessionIDKey
)

// WithPrincipal returns ctx carrying the authenticated caller.
func WithPrincipal(ctx context.Context, p access.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// getPrincipal extracts the caller from context. Without one the caller is
// an anonymous USER with no tenant.
func getPrincipal(ctx context.Context) access.Principal {
	p, ok := ctx.Value(principalKey).(access.Principal)
	if !ok {
		return access.Principal{Role: access.RoleUser}
	}
	return p
}

// getTenantID extracts tenant ID from context.
func getTenantID(ctx context.Context) string {
	return getPrincipal(ctx).TenantID
}

// getSessionID extracts session ID from context.
func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// PrincipalResolver resolves the caller from a bearer token.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (access.Principal, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver PrincipalResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: missing headers", ErrUnauthorized)
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
			}

			p, err := resolver.ResolvePrincipal(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
			}
			if p.TenantID == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", ErrUnauthorized)
			}

			return next(WithPrincipal(ctx, p), method, req)
		}
	}
}

// noAuthMiddleware injects a fixed principal when auth is disabled.
func noAuthMiddleware(p access.Principal) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(WithPrincipal(ctx, p), method, req)
		}
	}
}

// stdioSessionID names the single view session of a stdio process.
const stdioSessionID = "stdio"

// sessionMiddleware extracts session ID from Mcp-Session-Id header (HTTP) or
// metadata (stdio). fallback is used when neither is present.
func sessionMiddleware(fallback string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var sessionID string

			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				sessionID = extra.Header.Get("Mcp-Session-Id")
			}

			// Some notifications (like "initialized") have nil params, and
			// GetMeta panics on a nil underlying value.
			if sessionID == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if sid, ok := meta["session_id"].(string); ok {
								sessionID = sid
							}
						}
					}()
				}
			}

			// Stdio has one client per process; its transport session names it.
			if sessionID == "" {
				sessionID = safeSessionID(req)
			}
			if sessionID == "" {
				sessionID = fallback
			}

			if sessionID != "" {
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			}

			return next(ctx, method, req)
		}
	}
}
