package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/storefront/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionIDKey is the context key for the shopper's session id.
const SessionIDKey contextKey = "session_id"

// SessionTokenHeader carries a freshly minted session token back to the page.
const SessionTokenHeader = "X-Session-Token"

// GetSessionID extracts the session id from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// WithSessionID returns a context carrying the session id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// Session returns an interceptor that resolves the shopper's session from the
// Authorization bearer token. Requests without a valid token get a new
// session; its token is sent back in the X-Session-Token header, on errors too.
func Session(tokens *session.TokenManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id, ok := bearerSession(tokens, req.Header().Get("Authorization")); ok {
				return next(WithSessionID(ctx, id), req)
			}

			id, token, err := tokens.NewSession()
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			slog.Debug("Session started", "session_id", id, "procedure", req.Spec().Procedure)

			resp, err := next(WithSessionID(ctx, id), req)
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					connectErr.Meta().Set(SessionTokenHeader, token)
				}
				return nil, err
			}
			resp.Header().Set(SessionTokenHeader, token)
			return resp, nil
		}
	}
}

func bearerSession(tokens *session.TokenManager, header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	id, err := tokens.Validate(parts[1])
	if err != nil {
		slog.Debug("Ignoring invalid session token", "error", err)
		return "", false
	}
	return id, true
}
