package pkgrouter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

// maxLoggedBodyBytes caps how much of a JSON body ends up in a log line.
const maxLoggedBodyBytes = 16 * 1024

//nolint:gochecknoglobals // read-only lookup
var maskedHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-api-key":     {},
}

func maskHeaders(headers http.Header) http.Header {
	result := headers.Clone()
	for key := range result {
		if _, found := maskedHeaders[strings.ToLower(key)]; found {
			result.Set(key, "***")
		}
	}
	return result
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(mediaType(contentType), "multipart/")
}

func isJSON(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// summarizeBody renders a captured body for logging. JSON is decoded so it
// nests in the structured record; anything else is described, not dumped.
func summarizeBody(contentType string, body []byte, truncated bool) any {
	if len(body) == 0 {
		return nil
	}
	if !isJSON(contentType) {
		return map[string]any{"content_type": mediaType(contentType), "bytes": len(body)}
	}
	if truncated {
		return string(body) + "...(truncated)"
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	return decoded
}

// captureRequestBody reads a JSON request body for logging and replaces it
// so the handler still sees the full stream. Uploads are never buffered here.
func captureRequestBody(r *http.Request) any {
	ct := r.Header.Get("Content-Type")
	switch {
	case r.Body == nil || r.Body == http.NoBody:
		return nil
	case isMultipart(ct):
		return "<multipart body omitted>"
	case !isJSON(ct):
		return map[string]any{"content_type": mediaType(ct), "bytes": r.ContentLength}
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	if err != nil {
		return nil
	}
	r.Body = readCloser{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	truncated := len(head) > maxLoggedBodyBytes
	if truncated {
		head = head[:maxLoggedBodyBytes]
	}
	return summarizeBody(ct, head, truncated)
}

type readCloser struct {
	io.Reader
	io.Closer
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	body    bytes.Buffer
	capped  bool
	capture bool
	decided bool
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if !w.decided {
		// downloads are only counted, JSON envelopes are kept
		w.capture = isJSON(w.Header().Get("Content-Type"))
		w.decided = true
	}

	if w.capture && !w.capped {
		remaining := maxLoggedBodyBytes - w.body.Len()
		if len(p) > remaining {
			w.body.Write(p[:remaining])
			w.capped = true
		} else {
			w.body.Write(p)
		}
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func matchedRoutePath(r *http.Request) string {
	pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath()
	if pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := matchedRoutePath(r)
		start := time.Now()

		slog.InfoContext(
			r.Context(),
			"request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"headers", maskHeaders(r.Header),
			"body", captureRequestBody(r),
		)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if rec.capture {
			attrs = append(attrs, "body", summarizeBody(rec.Header().Get("Content-Type"), rec.body.Bytes(), rec.capped))
		} else if cd := rec.Header().Get("Content-Disposition"); cd != "" {
			attrs = append(attrs, "content_type", rec.Header().Get("Content-Type"), "disposition", cd)
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "response sent", attrs...)
	})
}
