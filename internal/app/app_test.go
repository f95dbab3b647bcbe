package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zachkp/fluxfolio/internal/config"
)

func testConfig(t *testing.T, vars map[string]string) *config.Config {
	t.Helper()
	base := map[string]string{"GIN_MODE": "test"}
	for k, v := range vars {
		base[k] = v
	}
	cfg, err := config.FromMap(base)
	require.NoError(t, err)
	return cfg
}

func TestNewWithoutOptionalServices(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, nil), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Store)
	assert.Nil(t, a.Tracker)
	assert.Nil(t, a.Assistant)
	assert.Equal(t, config.FlowDirect, a.Contact.Flow())

	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewWithStorage(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"DATABASE_PATH": filepath.Join(t.TempDir(), "site.db"),
	})
	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store)
	require.NotNil(t, a.Tracker)

	rec := httptest.NewRecorder()
	a.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewLoadsContentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
meta:
  title: "Custom Site"
profile:
  brand: "Custom"
projects:
  - title: "Only Project"
`), 0o644))

	a, err := New(context.Background(), testConfig(t, map[string]string{"CONTENT_FILE": path}), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "Custom", a.Content.Profile.Brand)
	require.Len(t, a.Content.Projects, 1)
	assert.Equal(t, "only-project", a.Content.Projects[0].Slug)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, map[string]string{"GIN_MODE": "loud"}), zaptest.NewLogger(t))
	assert.Error(t, err)

	_, err = New(context.Background(), testConfig(t, map[string]string{"CONTENT_FILE": "/does/not/exist.yaml"}), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"DATABASE_PATH": filepath.Join(t.TempDir(), "site.db"),
	})
	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewWarnsAboutDefaultAdminCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := testConfig(t, map[string]string{
		"DATABASE_PATH": filepath.Join(t.TempDir(), "site.db"),
	})
	a, err := New(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 1, logs.FilterMessage("using default admin username, set ADMIN_USERNAME").Len())
	assert.Equal(t, 1, logs.FilterMessage("using default admin password, set ADMIN_PASSWORD").Len())

	core, logs = observer.New(zapcore.WarnLevel)
	cfg = testConfig(t, map[string]string{
		"DATABASE_PATH":  filepath.Join(t.TempDir(), "site.db"),
		"ADMIN_USERNAME": "owner",
		"ADMIN_PASSWORD": "long-random-passphrase",
	})
	b, err := New(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	defer b.Close()

	assert.Zero(t, logs.FilterMessage("using default admin username, set ADMIN_USERNAME").Len())
	assert.Zero(t, logs.FilterMessage("using default admin password, set ADMIN_PASSWORD").Len())
}
