package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LogAttrer is implemented by response messages that add their own fields to
// the request log line, such as the checkout outcome.
type LogAttrer interface {
	LogAttrs() []slog.Attr
}

// LoggingInterceptor returns a Connect interceptor that logs every storefront
// call with its session, duration and outcome. Responses implementing
// LogAttrer contribute extra fields.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("session_id", GetSessionID(ctx)), // empty unless the session interceptor ran first
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}

			var connectErr *connect.Error
			switch {
			case errors.As(err, &connectErr):
				attrs = append(attrs,
					slog.String("code", connectErr.Code().String()),
					slog.String("error", connectErr.Message()),
				)
				slog.LogAttrs(ctx, slog.LevelWarn, "Storefront call failed", attrs...)
			case err != nil:
				attrs = append(attrs, slog.Any("error", err))
				slog.LogAttrs(ctx, slog.LevelError, "Storefront call failed", attrs...)
			default:
				if resp != nil {
					if la, ok := resp.Any().(LogAttrer); ok {
						attrs = append(attrs, la.LogAttrs()...)
					}
				}
				slog.LogAttrs(ctx, slog.LevelInfo, "Storefront call", attrs...)
			}
			return resp, err
		}
	}
}
