package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/vows/internal/platform/config"
)

func testServerConfig(port int, maxBody int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: maxBody,
	}
}

func TestServer_ConfiguredAddr(t *testing.T) {
	srv := New(&config.ServerConfig{Host: "::1", Port: 8080}, discardLogger())

	assert.Equal(t, "[::1]:8080", srv.Addr())
}

func TestServer_StartServeShutdown(t *testing.T) {
	srv := New(testServerConfig(0, 1<<20), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	errCh, err := srv.Start()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err, open := <-errCh:
		assert.False(t, open, "unexpected serve error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve loop did not stop")
	}
}

func TestServer_StartFailsWhenPortTaken(t *testing.T) {
	first := New(testServerConfig(0, 1<<20), discardLogger())
	_, err := first.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	port := first.ln.Addr().(*net.TCPAddr).Port
	_, err = New(testServerConfig(port, 1<<20), discardLogger()).Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}

func TestServer_BodyLimit(t *testing.T) {
	srv := New(testServerConfig(0, 16), discardLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, err.Error())
			return
		}

		c.String(http.StatusOK, "%d", len(b))
	})

	tests := []struct {
		body     string
		wantCode int
	}{
		{strings.Repeat("a", 16), http.StatusOK},
		{strings.Repeat("a", 17), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body)))

		assert.Equal(t, tt.wantCode, w.Code, "body of %d bytes", len(tt.body))
	}
}
