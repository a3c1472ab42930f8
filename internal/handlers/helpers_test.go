package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskflow-api/internal/config"
	"github.com/yukikurage/taskflow-api/internal/models"
	"github.com/yukikurage/taskflow-api/internal/server"
	"github.com/yukikurage/taskflow-api/internal/services"
	"github.com/yukikurage/taskflow-api/internal/testutil"
	"github.com/yukikurage/taskflow-api/internal/validation"
	"gorm.io/gorm"
)

// apiEnv is the production router over an in-memory store.
type apiEnv struct {
	t      *testing.T
	db     *gorm.DB
	tokens *services.TokenService
	router *gin.Engine
}

type errorBody struct {
	Code   string                  `json:"code"`
	Msg    string                  `json:"msg"`
	Errors []validation.FieldError `json:"errors"`
}

func newAPIEnv(t *testing.T, policy services.AccessPolicy) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:              "test-secret",
		TokenTTL:               time.Hour,
		AuthRateLimit:          20,
		AuthRateWindow:         time.Minute,
		CORSAllowedOrigins:     []string{"*"},
		RestrictUserTaskLookup: policy.RestrictUserTaskLookup,
		AdminOnlyReports:       policy.AdminOnlyReports,
	}
	db := testutil.NewDB(t)

	return &apiEnv{
		t:      t,
		db:     db,
		tokens: services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		router: server.NewRouter(server.Deps{Config: cfg, DB: db}),
	}
}

func (e *apiEnv) tokenFor(user *models.User) string {
	e.t.Helper()
	token, err := e.tokens.Issue(user)
	require.NoError(e.t, err)
	return token
}

// do sends body as JSON unless it is already a string.
func (e *apiEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
