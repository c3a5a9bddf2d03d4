package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pomodoro-planner/config"
	"github.com/oksasatya/go-pomodoro-planner/internal/container"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

type client struct {
	t      *testing.T
	engine *gin.Engine
	token  string
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("STORE_DRIVER", config.StoreDriverMemory)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ELASTICSEARCH_ADDRS", "")
	t.Setenv("DEBUG_METRICS_ENABLED", "true")

	c, err := container.New(context.Background(), config.Load(), helpers.NopLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return NewEngine(c)
}

func (cl *client) do(method, path string, body any) *httptest.ResponseRecorder {
	cl.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(cl.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	rec := httptest.NewRecorder()
	cl.engine.ServeHTTP(rec, req)
	return rec
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == helpers.RefreshTokenCookie {
			return ck
		}
	}
	return nil
}

func signUp(t *testing.T, engine *gin.Engine, email string) *client {
	t.Helper()
	cl := &client{t: t, engine: engine}
	rec := cl.do(http.MethodPost, "/api/auth/sign-up", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	cl.token, _ = res["accessToken"].(string)
	require.NotEmpty(t, cl.token)
	cl.cookie = refreshCookie(rec)
	require.NotNil(t, cl.cookie)
	return cl
}

func TestSignUpCreateTaskList_ScopedPerUser(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	bob := signUp(t, engine, "bob@example.com")

	rec := alice.do(http.MethodPost, "/api/tasks", map[string]any{"name": "write report", "priority": "high"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var task map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	taskID := task["id"].(string)

	rec = alice.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "write report", list[0]["name"])

	rec = bob.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = bob.do(http.MethodPatch, "/api/tasks/"+taskID, map[string]any{"isCompleted": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = bob.do(http.MethodDelete, "/api/tasks/"+taskID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = alice.do(http.MethodGet, "/api/tasks/search?q=report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = alice.do(http.MethodGet, "/api/user/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"Total","value":1`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	engine := newTestServer(t)
	anon := &client{t: t, engine: engine}

	for _, path := range []string{"/api/tasks", "/api/time-block", "/api/user/profile", "/api/pomodoro-timer/today", "/api/pomodoro-intervals"} {
		rec := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestSignUpValidationAndDuplicate(t *testing.T) {
	engine := newTestServer(t)
	anon := &client{t: t, engine: engine}

	rec := anon.do(http.MethodPost, "/api/auth/sign-up", map[string]string{"email": "bad", "password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	details := body["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")

	signUp(t, engine, "dup@example.com")
	rec = anon.do(http.MethodPost, "/api/auth/sign-up", map[string]string{"email": "dup@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = anon.do(http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "dup@example.com", "password": "wrong12"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = anon.do(http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshAndSignOutCookieFlow(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	assert.True(t, alice.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, alice.cookie.SameSite)

	anon := &client{t: t, engine: engine}
	rec := anon.do(http.MethodPost, "/api/auth/refresh-tokens", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cleared := refreshCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	rec = anon.do(http.MethodPost, "/api/auth/sign-out", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	withCookie := &client{t: t, engine: engine, cookie: alice.cookie}
	rec = withCookie.do(http.MethodPost, "/api/auth/refresh-tokens", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"accessToken"`)
	assert.Contains(t, rec.Body.String(), `"email":"alice@example.com"`)
	require.NotNil(t, refreshCookie(rec))

	rec = withCookie.do(http.MethodPost, "/api/auth/sign-out", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, rec.Body.String())
	out := refreshCookie(rec)
	require.NotNil(t, out)
	assert.Empty(t, out.Value)
	assert.Equal(t, alice.cookie.Domain, out.Domain)
	assert.Equal(t, alice.cookie.Path, out.Path)
	assert.True(t, out.MaxAge < 0)
}

func TestTimeBlockReorderEndpoint(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	bob := signUp(t, engine, "bob@example.com")

	create := func(cl *client, name string) string {
		rec := cl.do(http.MethodPost, "/api/time-block", map[string]any{"name": name, "duration": 30})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var b map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		return b["id"].(string)
	}
	first := create(alice, "first")
	second := create(alice, "second")
	foreign := create(bob, "theirs")

	rec := alice.do(http.MethodPut, "/api/time-block/update-order", map[string]any{"ids": []string{second, first}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = alice.do(http.MethodGet, "/api/time-block", nil)
	var blocks []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, second, blocks[0]["id"])
	assert.EqualValues(t, 0, blocks[0]["order"])
	assert.Equal(t, first, blocks[1]["id"])
	assert.EqualValues(t, 1, blocks[1]["order"])

	rec = alice.do(http.MethodPut, "/api/time-block/update-order", map[string]any{"ids": []string{first, foreign}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = alice.do(http.MethodPut, "/api/time-block/update-order", map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPomodoroEndpoints(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")

	rec := alice.do(http.MethodGet, "/api/pomodoro-timer/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())

	rec = alice.do(http.MethodPatch, "/api/pomodoro-intervals", map[string]any{"count": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"work":50,"break":10,"count":2}`, rec.Body.String())

	rec = alice.do(http.MethodPost, "/api/pomodoro-timer", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		ID     string `json:"id"`
		Rounds []struct {
			ID string `json:"id"`
		} `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.Len(t, session.Rounds, 2)

	rec = alice.do(http.MethodPatch, "/api/pomodoro-timer/round/"+session.Rounds[0].ID, map[string]any{"totalSeconds": 60, "isCompleted": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":"`+session.Rounds[0].ID+`","totalSeconds":60,"isCompleted":true}`, rec.Body.String())

	rec = alice.do(http.MethodPost, "/api/pomodoro-timer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"`+session.ID+`"`)

	rec = alice.do(http.MethodPatch, "/api/pomodoro-timer/"+session.ID, map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"isCompleted":false`)

	rec = alice.do(http.MethodPatch, "/api/pomodoro-timer/"+session.ID, map[string]any{"isCompleted": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isCompleted":true`)

	rec = alice.do(http.MethodDelete, "/api/pomodoro-timer/"+session.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndNotFound(t *testing.T) {
	engine := newTestServer(t)
	anon := &client{t: t, engine: engine}

	rec := anon.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = anon.do(http.MethodGet, "/api/debug/vars", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = anon.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"statusCode":404`)
}

func TestProfileUpdateAndSignInWithNewPassword(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	signUp(t, engine, "bob@example.com")

	rec := alice.do(http.MethodPatch, "/api/user/profile", map[string]any{"name": "Alice", "password": "newpass1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var u map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "Alice", u["name"])
	assert.NotContains(t, u, "password")

	rec = alice.do(http.MethodPatch, "/api/user/profile", map[string]any{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	anon := &client{t: t, engine: engine}
	rec = anon.do(http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "alice@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = anon.do(http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "alice@example.com", "password": "newpass1"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestTimeBlockUpdateAndDelete(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	bob := signUp(t, engine, "bob@example.com")

	rec := alice.do(http.MethodPost, "/api/time-block", map[string]any{"name": "deep work", "duration": 50})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var b map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	id := b["id"].(string)

	rec = alice.do(http.MethodPatch, "/api/time-block/"+id, map[string]any{"duration": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = alice.do(http.MethodPatch, "/api/time-block/"+id, map[string]any{"name": "email", "duration": 15})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "email", b["name"])
	assert.EqualValues(t, 15, b["duration"])

	rec = bob.do(http.MethodDelete, "/api/time-block/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = alice.do(http.MethodDelete, "/api/time-block/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+id+`"}`, rec.Body.String())

	rec = alice.do(http.MethodGet, "/api/time-block", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSignUp_OverlongPasswordIsValidationError(t *testing.T) {
	engine := newTestServer(t)
	anon := &client{t: t, engine: engine}

	rec := anon.do(http.MethodPost, "/api/auth/sign-up", map[string]string{"email": "long@example.com", "password": strings.Repeat("a", 80)})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	details, _ := body["details"].(map[string]any)
	assert.Equal(t, "must be at most 72 characters long", details["password"])

	alice := signUp(t, engine, "alice@example.com")
	rec = alice.do(http.MethodPatch, "/api/user/profile", map[string]any{"password": strings.Repeat("€", 30)})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
