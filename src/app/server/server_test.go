package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokebox/src/app/server"
	"jokebox/src/infra/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fakeRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Log:     config.LogConfig{Level: "error", Format: "text"},
		Session: config.SessionConfig{Secret: "router-test-secret", CookieName: "session", MaxAge: time.Hour},
	}
	repo := newFakeRepo()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return server.New(cfg, log, repo).Router(), repo
}

func postForm(r *gin.Engine, path string, values url.Values, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// sessionCookie extracts the session cookie issued in a response.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

// register signs up a fresh user through the HTTP surface and returns the
// issued session cookie.
func register(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := postForm(r, "/login", url.Values{
		"loginType": {"register"},
		"username":  {username},
		"password":  {password},
	}, "")
	require.Equal(t, http.StatusFound, w.Code, "register failed: %s", w.Body.String())
	return sessionCookie(t, w)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterIssuesSessionAndRedirects(t *testing.T) {
	r, repo := newTestRouter(t)

	w := postForm(r, "/login", url.Values{
		"loginType": {"register"},
		"username":  {"kody"},
		"password":  {"twixrox"},
	}, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/jokes", w.Header().Get("Location"))
	assert.NotEmpty(t, sessionCookie(t, w))
	assert.Len(t, repo.users, 1)

	// The issued cookie must be script-inaccessible.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestLoginAfterRegister(t *testing.T) {
	r, _ := newTestRouter(t)
	register(t, r, "kody", "twixrox")

	w := postForm(r, "/login", url.Values{
		"loginType": {"login"},
		"username":  {"kody"},
		"password":  {"twixrox"},
	}, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/jokes", w.Header().Get("Location"))
}

func TestLoginValidationEchoesFields(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/login", url.Values{
		"loginType": {"login"},
		"username":  {"ko"},
		"password":  {"abc"},
	}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)

	fieldErrors, ok := body["fieldErrors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fieldErrors, "username")
	assert.Contains(t, fieldErrors, "password")

	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ko", fields["username"])
	assert.Equal(t, "abc", fields["password"])
	assert.Nil(t, body["formError"])
}

func TestLoginFailureIsUniformOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	register(t, r, "kody", "twixrox")

	unknown := postForm(r, "/login", url.Values{
		"loginType": {"login"},
		"username":  {"nobody"},
		"password":  {"twixrox"},
	}, "")
	wrongPass := postForm(r, "/login", url.Values{
		"loginType": {"login"},
		"username":  {"kody"},
		"password":  {"wrongpass"},
	}, "")

	require.Equal(t, http.StatusBadRequest, unknown.Code)
	require.Equal(t, http.StatusBadRequest, wrongPass.Code)
	assert.Equal(t,
		decodeBody(t, unknown)["formError"],
		decodeBody(t, wrongPass)["formError"],
	)
}

func TestRegisterDuplicateUsernameIsFormError(t *testing.T) {
	r, repo := newTestRouter(t)
	register(t, r, "kody", "twixrox")

	w := postForm(r, "/login", url.Values{
		"loginType": {"register"},
		"username":  {"kody"},
		"password":  {"different"},
	}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["formError"], "already exists")
	assert.Nil(t, body["fieldErrors"], "duplicate username is a form-level failure")
	assert.Len(t, repo.users, 1)
}

func TestLoginTypeInvalid(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/login", url.Values{
		"loginType": {"frobnicate"},
		"username":  {"kody"},
		"password":  {"twixrox"},
	}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Login type invalid", decodeBody(t, w)["formError"])
}

func TestCreateJokeRequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postForm(r, "/jokes", url.Values{
		"name":    {"Frisbee"},
		"content": {"I was wondering why the frisbee was getting bigger, then it hit me."},
	}, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirectTo=%2Fjokes", w.Header().Get("Location"))
}

func TestCreateJoke(t *testing.T) {
	r, repo := newTestRouter(t)
	cookie := register(t, r, "kody", "twixrox")

	w := postForm(r, "/jokes", url.Values{
		"name":    {"Frisbee"},
		"content": {"I was wondering why the frisbee was getting bigger, then it hit me."},
	}, cookie)

	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/jokes/"))
	assert.Len(t, repo.jokes, 1)

	// The creator sees their own joke as owned.
	show := get(r, location, cookie)
	require.Equal(t, http.StatusOK, show.Code)
	data := decodeBody(t, show)["data"].(map[string]any)
	assert.Equal(t, "Frisbee", data["name"])
	assert.Equal(t, true, data["is_owner"])

	// An anonymous viewer does not.
	show = get(r, location, "")
	require.Equal(t, http.StatusOK, show.Code)
	data = decodeBody(t, show)["data"].(map[string]any)
	assert.Equal(t, false, data["is_owner"])
}

func TestCreateJokeValidationEchoesFields(t *testing.T) {
	r, repo := newTestRouter(t)
	cookie := register(t, r, "kody", "twixrox")

	w := postForm(r, "/jokes", url.Values{
		"name":    {"Fr"},
		"content": {"short"},
	}, cookie)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)

	fieldErrors := body["fieldErrors"].(map[string]any)
	assert.Contains(t, fieldErrors, "name")
	assert.Contains(t, fieldErrors, "content")

	fields := body["fields"].(map[string]any)
	assert.Equal(t, "Fr", fields["name"])
	assert.Equal(t, "short", fields["content"])
	assert.Empty(t, repo.jokes)
}

func TestDeleteJoke(t *testing.T) {
	r, repo := newTestRouter(t)
	ownerCookie := register(t, r, "kody", "twixrox")
	otherCookie := register(t, r, "mabel", "password1")

	w := postForm(r, "/jokes", url.Values{
		"name":    {"Frisbee"},
		"content": {"I was wondering why the frisbee was getting bigger, then it hit me."},
	}, ownerCookie)
	require.Equal(t, http.StatusFound, w.Code)
	jokePath := w.Header().Get("Location")

	deleteForm := url.Values{"intent": {"delete"}}

	t.Run("unsupported intent", func(t *testing.T) {
		w := postForm(r, jokePath, url.Values{"intent": {"frobnicate"}}, ownerCookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		w := postForm(r, jokePath, deleteForm, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?redirectTo="+url.QueryEscape(jokePath), w.Header().Get("Location"))
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		w := postForm(r, jokePath, deleteForm, otherCookie)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Len(t, repo.jokes, 1)
	})

	t.Run("missing joke is not found", func(t *testing.T) {
		w := postForm(r, "/jokes/joke-404", deleteForm, ownerCookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		w := postForm(r, jokePath, deleteForm, ownerCookie)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/jokes", w.Header().Get("Location"))
		assert.Empty(t, repo.jokes)

		show := get(r, jokePath, ownerCookie)
		assert.Equal(t, http.StatusNotFound, show.Code)
	})
}

func TestNewJokePage(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/jokes/new", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie := register(t, r, "kody", "twixrox")
	w = get(r, "/jokes/new", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe(t *testing.T) {
	r, _ := newTestRouter(t)

	// Anonymous viewers get a null user, not an error.
	w := get(r, "/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBody(t, w)["data"].(map[string]any)["user"])

	cookie := register(t, r, "kody", "twixrox")
	w = get(r, "/me", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "kody", user["username"])

	// A stale cookie for a vanished user degrades to anonymous.
	w = get(r, "/me", "tampered-cookie")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBody(t, w)["data"].(map[string]any)["user"])
}

func TestLogout(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "kody", "twixrox")

	w := postForm(r, "/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// The replacement cookie is empty and already expired.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestListAndRandom(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "kody", "twixrox")

	w := get(r, "/jokes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["data"].(map[string]any)["jokes"])

	// Random on an empty store is a 404, not a crash.
	w = get(r, "/jokes/random", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	postForm(r, "/jokes", url.Values{
		"name":    {"Frisbee"},
		"content": {"I was wondering why the frisbee was getting bigger, then it hit me."},
	}, cookie)

	w = get(r, "/jokes", "")
	require.Equal(t, http.StatusOK, w.Code)
	jokes := decodeBody(t, w)["data"].(map[string]any)["jokes"].([]any)
	assert.Len(t, jokes, 1)

	w = get(r, "/jokes/random", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Frisbee", decodeBody(t, w)["data"].(map[string]any)["name"])
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/health/detailed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}
