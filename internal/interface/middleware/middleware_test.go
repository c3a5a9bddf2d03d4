package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
	"github.com/oksasatya/go-pomodoro-planner/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type usersByID map[string]*entity.User

func (m usersByID) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(helpers.NopLogger()))
	r.Use(mw...)
	r.NoRoute(NotFound())
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, time.Hour, true)
	users := usersByID{"u1": {ID: "u1", Email: "a@b.c", Password: "hash"}}

	r := newEngine()
	r.GET("/me", Auth(jwt, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c)})
	})

	valid, err := jwt.IssuePair("u1")
	require.NoError(t, err)
	orphan, err := jwt.IssuePair("ghost")
	require.NoError(t, err)
	expired, err := helpers.NewJWTManager("secret", -time.Hour, time.Hour, true).IssuePair("u1")
	require.NoError(t, err)
	foreign, err := helpers.NewJWTManager("other", time.Hour, time.Hour, true).IssuePair("u1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + valid.AccessToken, http.StatusOK},
		{"expired accepted", "Bearer " + expired.AccessToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid.AccessToken, http.StatusUnauthorized},
		{"bad signature", "Bearer " + foreign.AccessToken, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"unknown user", "Bearer " + orphan.AccessToken, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusUnauthorized {
				body := decodeError(t, rec)
				assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
				assert.Equal(t, "/me", body.Path)
			} else {
				assert.JSONEq(t, `{"id":"u1"}`, rec.Body.String())
			}
		})
	}
}

type failingUsers struct{ err error }

func (f failingUsers) GetByID(context.Context, string) (*entity.User, error) { return nil, f.err }

func TestAuth_UserLookupErrors(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour, time.Hour, true)
	pair, err := jwt.IssuePair("u1")
	require.NoError(t, err)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"store down", errors.New("connection refused"), http.StatusInternalServerError},
		{"context canceled", context.Canceled, http.StatusInternalServerError},
		{"not found kind", apperr.Wrap(apperr.KindNotFound, "User not found", repository.ErrNotFound), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine()
			called := false
			r.GET("/me", Auth(jwt, failingUsers{err: tc.err}), func(c *gin.Context) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.want, decodeError(t, rec).StatusCode)
		})
	}
}

func TestAuth_EnforcedExpiry(t *testing.T) {
	strict := helpers.NewJWTManager("secret", -time.Hour, time.Hour, false)
	users := usersByID{"u1": {ID: "u1"}}
	r := newEngine()
	r.GET("/me", Auth(strict, users), func(c *gin.Context) { c.Status(http.StatusOK) })

	pair, err := strict.IssuePair("u1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/nf", func(c *gin.Context) { _ = c.Error(apperr.NotFound("Task not found")) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })
	r.POST("/bind", func(c *gin.Context) {
		var dto struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&dto); err != nil {
			_ = c.Error(&BindError{Err: err})
		}
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Task not found", body.Message)
	assert.Equal(t, "Not Found", body.Error)
	assert.NotEmpty(t, body.Timestamp)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bind", nil)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cannot GET /nowhere", decodeError(t, rec).Message)
}

func TestRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Header().Get(HeaderRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())

	given := "3b241101-e2bb-4255-8caf-4136c566a962"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, given)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, given, rec.Header().Get(HeaderRequestID))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newEngine(RealIP())
	r.POST("/auth/sign-in", RateLimit(rdb, helpers.NopLogger(), 2, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, send().Code)

	blocked := send()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.True(t, mr.Exists("rl:path:/auth/sign-in:ip:203.0.113.7"))

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, send().Code)
}

func TestRateLimit_DisabledAndFailOpen(t *testing.T) {
	r := newEngine()
	r.GET("/off", RateLimit(nil, nil, 1, time.Minute, KeyByUserID(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	r.GET("/down", RateLimit(rdb, helpers.NopLogger(), 1, time.Minute, KeyByUserID(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	mr.Close()

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/off", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/down", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAllowPrivateIP(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := newEngine(RealIP())
	r.GET("/", RateLimit(rdb, nil, 1, time.Minute, KeyByUserID(), AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.5")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
