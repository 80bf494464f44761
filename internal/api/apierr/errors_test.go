package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", New(ErrValidation, "bad amount"), http.StatusBadRequest},
		{"duplicate email", ErrDuplicateEmail, http.StatusBadRequest},
		{"duplicate username wrapped", fmt.Errorf("register: %w", ErrDuplicateUsername), http.StatusBadRequest},
		{"conflict", New(ErrConflict, "exists"), http.StatusBadRequest},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"token", ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"not found", New(ErrNotFound, "Creator not found"), http.StatusNotFound},
		{"provider", New(ErrProvider, "Failed to create checkout session"), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessageHidesInternalDetails(t *testing.T) {
	assert.Equal(t, "Internal server error", Message(errors.New("pq: relation does not exist")))
	assert.Equal(t, "Failed to create checkout session", Message(New(ErrProvider, "Failed to create checkout session")))
	assert.Equal(t, "Creator not found", Message(fmt.Errorf("lookup: %w", New(ErrNotFound, "Creator not found"))))
	assert.Equal(t, "Email already registered", Message(fmt.Errorf("register: %w", ErrDuplicateEmail)))
}

func TestSentinelsAreLowercase(t *testing.T) {
	for _, d := range displayText {
		msg := d.kind.Error()
		assert.Equal(t, strings.ToLower(msg[:1]), msg[:1], msg)
		assert.Equal(t, d.text, Message(d.kind))
	}
	assert.Equal(t, "Not found", Message(fmt.Errorf("load: %w", ErrNotFound)))
	assert.Equal(t, "Could not validate credentials", Message(ErrInvalidToken))
}

func TestRespondUnauthorizedSetsChallenge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, ErrInvalidCredentials)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Incorrect email or password", body["error"])
}
