package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/persondata/internal/app/models/dto"
	"github.com/yigit/persondata/internal/pkg/apperrors"
	"github.com/yigit/persondata/internal/pkg/auth"
	"github.com/yigit/persondata/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool             `json:"success"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleAPIError_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"person not found", apperrors.NewNotFound("login", "nobody"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"adviser not found", apperrors.NewAdviserNotFound("javerage"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("resolve: %w", apperrors.NewNotFound("regid", "x")), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"invalid identifier", apperrors.NewInvalidIdentifier(validation.ClassNetID, "1abc"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"ambiguous", apperrors.NewAmbiguous("login", "javerage", 2), http.StatusConflict, dto.ErrorCodeConflict},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, dto.ErrorCodeExternalServiceError},
		{"bad request", apperrors.NewBadRequestError("timeout must be positive"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"database down", fmt.Errorf("query: %w", &pgconn.PgError{Code: "08006"}), http.StatusServiceUnavailable, dto.ErrorCodeDatabaseUnavailable},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { HandleAPIError(c, tc.err) })

			w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tc.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenIssuer: "persondata"})
	r := gin.New()
	r.Use(NewAuthMiddleware(svc).JWTAuth())
	r.GET("/who", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextKeySubject)) })

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.IssueToken("advising-portal", "", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "advising-portal", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/who", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeUnauthorized, decode(t, w).Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.IssueToken("advising-portal", "", -time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/who", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeExpiredToken, decode(t, w).Error.Code)
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	w = serve(r, req)
	assert.Equal(t, "caller-supplied", w.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/sync", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))

	now = now.Add(limiterIdle + time.Second)
	assert.Equal(t, 2, rl.Cleanup())
}

func TestRateLimiter_RejectionIsAWarning(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	r := gin.New()
	r.POST("/sync", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := func() *httptest.ResponseRecorder {
		return serve(r, httptest.NewRequest(http.MethodPost, "/sync", nil))
	}
	require.Equal(t, http.StatusOK, req().Code)

	w := req()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var body struct {
		Error dto.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrorCodeTooManyRequests, body.Error.Code)
	assert.Equal(t, dto.ErrorSeverityWarning, body.Error.Severity)
}

func TestValidateIdentifier(t *testing.T) {
	r := gin.New()
	r.GET("/persons/login/:login",
		ValidateIdentifier(validation.NewIdentityValidator(), "login", validation.ClassNetID),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/persons/login/javerage", nil)).Code)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/persons/login/1javerage", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	assert.Equal(t, validation.ClassNetID, env.Error.Field)
}
