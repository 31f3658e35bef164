package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/carecube/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "no-cache", rec.Header().Get("Pragma"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["message"])
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
		req.Header.Set("Content-Type", "application/json")
		var p payload
		require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &p))
		require.Equal(t, "a@b.co", p.Email)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"unknown field", `{"email":"a@b.co","admin":true}`, "application/json"},
		{"trailing data", `{"email":"a@b.co"}{}`, "application/json"},
		{"not json", `email=a@b.co`, "application/json"},
		{"wrong content type", `{"email":"a@b.co"}`, "text/plain"},
		{"empty body", ``, "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			var p payload
			require.ErrorIs(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &p), httpx.ErrInvalidJSON)
		})
	}
}

func TestSetCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.SetCookie(rec, "accessToken", "tok", time.Now().Add(time.Hour), httpx.CookieOptions{Secure: true})

	res := rec.Result()
	defer res.Body.Close()

	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, "accessToken", c.Name)
	require.Equal(t, "tok", c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, "/", c.Path)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.InDelta(t, 3600, c.MaxAge, 2)
}

func TestExpireCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.ExpireCookie(rec, "userId", httpx.CookieOptions{})

	res := rec.Result()
	defer res.Body.Close()

	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "userId", cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Equal(t, -1, cookies[0].MaxAge)
	require.False(t, cookies[0].Secure)
}

func TestCookieValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, httpx.CookieValue(req, "userId"))

	req.AddCookie(&http.Cookie{Name: "userId", Value: "abc"})
	require.Equal(t, "abc", httpx.CookieValue(req, "userId"))
}
