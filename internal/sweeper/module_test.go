package sweeper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/datasweeper/internal/pkg/pkguid"
)

type mapConfig map[string]any

func (c mapConfig) GetInt(key string) int64 {
	v, _ := c[key].(int64)
	return v
}

func (c mapConfig) GetBool(key string) bool {
	v, _ := c[key].(bool)
	return v
}

func (c mapConfig) GetString(key string) string {
	v, _ := c[key].(string)
	return v
}

func (c mapConfig) GetDuration(key string) time.Duration {
	v, _ := c[key].(time.Duration)
	return v
}

func (c mapConfig) GetSize(key string) int64 { return c.GetInt(key) }

func (c mapConfig) GetStrings(key string) []string {
	v, _ := c[key].([]string)
	return v
}

func (c mapConfig) Close() error { return nil }

func TestNewRegistersRoutes(t *testing.T) {
	router := pkgrouter.NewRouter(pkguid.NewUUID())
	reg := prometheus.NewRegistry()

	closer, err := New(Dependency{
		Config: mapConfig{
			"events.workers":   int64(1),
			"session.max":      int64(4),
			"session.ttl":      time.Minute,
			"preview.rows":     int64(3),
			"events.buffer":    int64(4),
			"upload.max_bytes": int64(1 << 20),
		},
		Router:   router,
		Registry: reg,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, closer(ctx))
}

func TestNewRequiresConfigAndRouter(t *testing.T) {
	_, err := New(Dependency{})
	assert.Error(t, err)
}
