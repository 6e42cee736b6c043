package pkgrouter

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkglog"
)

// Generator generates a unique string (used for correlation/request IDs).
type Generator interface {
	Generate() string
}

const (
	// HeaderCorrelationID is the canonical header used to track requests end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative header name used by some proxies.
	HeaderRequestID = "X-Request-ID"
	// HeaderTraceParent carries a W3C trace context; its trace-id is used as a
	// last resort before generating a fresh ID.
	HeaderTraceParent = "Traceparent"

	maxCIDLen = 128
)

func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxCIDLen {
		v = v[:maxCIDLen]
	}
	return v
}

// traceID extracts the trace-id field of a "version-traceid-parentid-flags"
// header, rejecting the all-zero invalid ID.
func traceID(traceparent string) string {
	parts := strings.Split(strings.TrimSpace(traceparent), "-")
	if len(parts) != 4 || len(parts[1]) != 32 || strings.Trim(parts[1], "0") == "" {
		return ""
	}
	return strings.ToLower(parts[1])
}

func correlationID(r *http.Request, uid Generator) string {
	for _, candidate := range []string{
		normalizeCID(r.Header.Get(HeaderCorrelationID)),
		normalizeCID(r.Header.Get(HeaderRequestID)),
		traceID(r.Header.Get(HeaderTraceParent)),
	} {
		if candidate != "" {
			return candidate
		}
	}
	if uid != nil {
		return uid.Generate()
	}
	return ""
}

func middlewareCorrelationID(uid Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cid := correlationID(r, uid); cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
