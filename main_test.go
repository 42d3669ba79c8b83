package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog/internal/apperrors"
	"blog/internal/config"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("JWT_ALGORITHM", "HS256")
	v.Set("ACCESS_TOKEN_TTL", "30m")
	v.Set("STORE_DRIVER", "memory")
	v.Set("BCRYPT_COST", 4)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestNewApp_HealthCheck(t *testing.T) {
	app, cleanup, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["store"])
	assert.Equal(t, false, body["cache"])
	assert.Equal(t, false, body["events"])
}

func TestNewApp_EndToEnd(t *testing.T) {
	app, cleanup, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	post := func(path, token, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := post("/Register", "", `{"username":"alice","email":"alice@x.com","password":"pw1pw1"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = post("/login", "", `{"username":"alice@x.com","password":"pw1pw1"}`)
	var login map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	token := login["access_token"].(string)
	assert.Equal(t, float64(30*time.Minute/time.Second), login["expires_in"])

	resp = post("/posts", token, `{"title":"Hello World","content":"hi"}`)
	var created map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "hello-world", created["slug"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/posts/hello-world", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewApp_UnknownRouteIsJSON(t *testing.T) {
	app, cleanup, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestNewApp_InvalidTokenConfiguration(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTAlgorithm = "RS256"

	_, _, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
}

func TestLogActivity(t *testing.T) {
	assert.NoError(t, logActivity([]byte(`{"type":"post.created","actor_id":"u1","post_id":"p1"}`)))
	assert.Error(t, logActivity([]byte(`not json`)))
	assert.Error(t, logActivity([]byte(`{"actor_id":"u1"}`)))
}
