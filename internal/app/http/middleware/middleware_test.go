package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artison-api/config"
	"artison-api/database/databasetest"
	"artison-api/internal/api/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	tokens, err := auth.NewTokenService(config.JWTConfig{Secret: "s", Algorithm: "HS256", Expiration: time.Minute})
	require.NoError(t, err)
	return auth.NewService(databasetest.New(t), tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func protectedRouter(svc *auth.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(svc), func(c *gin.Context) {
		user, _ := auth.UserFrom(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	r.GET("/creator", AuthMiddleware(svc), RequireCreator(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	svc := newAuthService(t)
	name := "aoi"
	_, err := svc.Register(context.Background(), auth.RegisterInput{Email: "aoi@example.com", Password: "password123", Username: &name})
	require.NoError(t, err)
	token, err := svc.Login(context.Background(), "aoi@example.com", "password123")
	require.NoError(t, err)

	r := protectedRouter(svc)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer junk", http.StatusUnauthorized},
		{"valid", "Bearer " + token.AccessToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/me", tt.header)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}

	w := get(r, "/me", "Bearer "+token.AccessToken)
	assert.JSONEq(t, `{"username":"aoi"}`, w.Body.String())
}

func TestRequireCreator(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, auth.RegisterInput{Email: "fan@example.com", Password: "password123"})
	require.NoError(t, err)
	token, err := svc.Login(ctx, "fan@example.com", "password123")
	require.NoError(t, err)

	r := protectedRouter(svc)
	w := get(r, "/creator", "Bearer "+token.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	claims, err := svc.Tokens().Verify(token.AccessToken)
	require.NoError(t, err)
	_, err = svc.BecomeCreator(ctx, claims.Subject)
	require.NoError(t, err)

	w = get(r, "/creator", "Bearer "+token.AccessToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireCreatorWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/creator", RequireCreator(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusUnauthorized, get(r, "/creator", "").Code)
}

func sanitizeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	echo := func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	}
	r.POST("/echo", SanitizeJSONFields("display_name", "bio"), echo)
	r.GET("/echo", SanitizeJSONFields("display_name"), echo)
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSanitizeJSONFields(t *testing.T) {
	r := sanitizeRouter()

	w := postJSON(r, `{"display_name":"<script>alert(1)</script>Mika","bio":"<b>hi</b>","password":"<b>pw</b>","url":"https://x.test/?a=<b>"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Mika", got["display_name"])
	assert.Equal(t, "hi", got["bio"])
	assert.Equal(t, "<b>pw</b>", got["password"])
	assert.Equal(t, "https://x.test/?a=<b>", got["url"])
}

func TestSanitizeJSONFieldsKeepsPlainText(t *testing.T) {
	r := sanitizeRouter()

	w := postJSON(r, `{"display_name":"Tom & Jerry's","bio":"<b>I'm a fan & friend</b>"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Tom & Jerry's", got["display_name"])
	assert.Equal(t, "I'm a fan & friend", got["bio"])
}

func TestSanitizeJSONFieldsNested(t *testing.T) {
	r := sanitizeRouter()

	w := postJSON(r, `{"items":[{"bio":"<i>x</i>"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[{"bio":"x"}]}`, w.Body.String())
}

func TestSanitizeJSONFieldsPassThrough(t *testing.T) {
	r := sanitizeRouter()

	for _, body := range []string{`["<b>a</b>","b"]`, `{not json`, `{"display_name":"plain"}`} {
		w := postJSON(r, body)
		assert.Equal(t, body, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`display_name=<b>x</b>`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, `display_name=<b>x</b>`, w.Body.String())
}
