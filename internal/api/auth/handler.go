package auth

import (
	"net/http"
	"strings"

	"artison-api/internal/api/apierr"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), input)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Login accepts the OAuth2 password form (username holds the email) or a
// JSON body with email and password.
func (h *Handler) Login(c *gin.Context) {
	var email, password string

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		email, password = input.Email, input.Password
	} else {
		email, password = c.PostForm("username"), c.PostForm("password")
		if email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}
	}

	token, err := h.svc.Login(c.Request.Context(), email, password)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) BecomeCreator(c *gin.Context) {
	user, ok := UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	updated, err := h.svc.BecomeCreator(c.Request.Context(), user.ID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
