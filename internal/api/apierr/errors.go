// Package apierr holds the error kinds shared by the services and maps them
// to HTTP responses.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("not enough permissions")
	ErrNotFound           = errors.New("not found")
	ErrProvider           = errors.New("payment provider error")
)

// displayText is the client-facing text for a bare kind.
var displayText = []struct {
	kind error
	text string
}{
	{ErrDuplicateEmail, "Email already registered"},
	{ErrDuplicateUsername, "Username already taken"},
	{ErrInvalidCredentials, "Incorrect email or password"},
	{ErrInvalidToken, "Could not validate credentials"},
	{ErrForbidden, "Not enough permissions"},
	{ErrNotFound, "Not found"},
	{ErrConflict, "Resource already exists"},
	{ErrValidation, "Validation failed"},
}

// Error attaches a client-facing message to one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show a client. Internal and provider
// failures collapse to a generic message.
func Message(err error) string {
	status := Status(err)
	if status == http.StatusInternalServerError {
		var e *Error
		if errors.As(err, &e) && errors.Is(err, ErrProvider) {
			return e.Message
		}
		return "Internal server error"
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	for _, d := range displayText {
		if errors.Is(err, d.kind) {
			return d.text
		}
	}
	return err.Error()
}

// Respond writes err as {"error": message} with the mapped status.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, gin.H{"error": Message(err)})
}

// Abort is Respond for middleware.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
