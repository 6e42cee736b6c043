package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
)

type created struct {
	ID string `json:"id"`
}

func (created) StatusCode() int { return http.StatusCreated }
func (created) Message() string { return "created" }

func serve(t *testing.T, ro *Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouterEnvelope(t *testing.T) {
	ro := NewRouter(&staticGenerator{value: "cid"})
	ro.POST("/things", func(context.Context, *http.Request) (any, error) {
		return created{ID: "a1"}, nil
	})

	rec := serve(t, ro, http.MethodPost, "/things")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var body struct {
		Message string  `json:"message"`
		Data    created `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "created" || body.Data.ID != "a1" {
		t.Fatalf("unexpected body %+v", body)
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != "cid" {
		t.Fatalf("expected correlation id, got %q", got)
	}
}

func TestRouterNilResponseIsNoContent(t *testing.T) {
	ro := NewRouter(nil)
	ro.DELETE("/things/:id", func(context.Context, *http.Request) (any, error) {
		return nil, nil
	})

	rec := serve(t, ro, http.MethodDelete, "/things/1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestRouterFileDownload(t *testing.T) {
	ro := NewRouter(nil)
	ro.GET("/download", func(context.Context, *http.Request) (any, error) {
		return &File{Name: "report.csv", ContentType: "text/csv", Data: []byte("a\n1\n")}, nil
	})
	ro.GET("/image", func(context.Context, *http.Request) (any, error) {
		return &File{Name: "chart.png", Data: []byte{1}, Inline: true}, nil
	})

	rec := serve(t, ro, http.MethodGet, "/download")
	if rec.Code != http.StatusOK || rec.Body.String() != "a\n1\n" {
		t.Fatalf("unexpected download %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=report.csv` {
		t.Fatalf("unexpected disposition %q", got)
	}

	rec = serve(t, ro, http.MethodGet, "/image")
	if got := rec.Header().Get("Content-Disposition"); got != `inline; filename=chart.png` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/octet-stream" {
		t.Fatalf("expected default content type, got %q", got)
	}
}

func TestRouterFileDownloadEncodesFilename(t *testing.T) {
	names := []string{`q1 "final".csv`, "données été.xlsx", "report;.csv"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			ro := NewRouter(nil)
			ro.GET("/download", func(context.Context, *http.Request) (any, error) {
				return &File{Name: name, Data: []byte("x")}, nil
			})

			rec := serve(t, ro, http.MethodGet, "/download")

			disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
			if err != nil {
				t.Fatalf("unparseable disposition %q: %v", rec.Header().Get("Content-Disposition"), err)
			}
			if disposition != "attachment" || params["filename"] != name {
				t.Fatalf("got %q %q, want attachment %q", disposition, params["filename"], name)
			}
		})
	}
}

func TestRouterErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{name: "not found", err: pkgerror.NewBusiness("dataset not found", pkgerror.CodeNotFound), status: http.StatusNotFound},
		{name: "validation", err: pkgerror.NewInvalidInput(errors.New("rows too big")), status: http.StatusUnprocessableEntity, reason: "rows too big"},
		{name: "too large", err: pkgerror.NewBusiness("upload too large", pkgerror.CodeTooLarge), status: http.StatusRequestEntityTooLarge},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ro := NewRouter(nil)
			ro.GET("/x", func(context.Context, *http.Request) (any, error) { return nil, tt.err })

			rec := serve(t, ro, http.MethodGet, "/x")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error["reason"] != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, body.Error["reason"])
			}
		})
	}
}

func TestRouterRecoversPanics(t *testing.T) {
	ro := NewRouter(nil)
	ro.GET("/panic", func(context.Context, *http.Request) (any, error) {
		panic("kaboom")
	})

	rec := serve(t, ro, http.MethodGet, "/panic")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	rec := serve(t, NewRouter(nil), http.MethodGet, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProjectFrames(t *testing.T) {
	stack := []byte("goroutine 1 [running]:\nmain.f()\n\t/src/app/internal/pkg/x.go:12 +0x1d\n\t/usr/lib/go/src/runtime/panic.go:770 +0x132\n")

	frames := projectFrames(stack)
	if len(frames) != 1 || frames[0] != "internal/pkg/x.go:12" {
		t.Fatalf("unexpected frames %v", frames)
	}
}
