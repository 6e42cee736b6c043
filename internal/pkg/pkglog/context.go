package pkglog

import (
	"context"
	"log/slog"
)

type logContextKey struct{}

type logContext struct {
	cid   string
	attrs []slog.Attr
}

func fromContext(ctx context.Context) logContext {
	lc, _ := ctx.Value(logContextKey{}).(logContext)
	return lc
}

// GetCorrelationID returns the correlation ID stored in the context, or ""
// when the request never passed through the correlation middleware.
func GetCorrelationID(ctx context.Context) string {
	return fromContext(ctx).cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	lc := fromContext(ctx)
	lc.cid = cid
	return context.WithValue(ctx, logContextKey{}, lc)
}

// WithAttrs returns a context whose log records carry attrs in addition to
// any attached by parent contexts.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}

	lc := fromContext(ctx)
	merged := make([]slog.Attr, 0, len(lc.attrs)+len(attrs))
	merged = append(merged, lc.attrs...)
	lc.attrs = append(merged, attrs...)
	return context.WithValue(ctx, logContextKey{}, lc)
}
