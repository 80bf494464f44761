package creators

import (
	"net/http"

	"artison-api/internal/api/apierr"
	"artison-api/internal/api/auth"
	"artison-api/internal/domain/creators"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateProfile(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.CreateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) GetMyProfile(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	profile, err := h.svc.GetProfileByUserID(c.Request.Context(), user.ID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) GetPublicProfile(c *gin.Context) {
	profile, err := h.svc.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	var input creators.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) AddLink(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	var input LinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.svc.AddLink(c.Request.Context(), user.ID, input)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *Handler) UpdateLink(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	var input creators.LinkUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.svc.UpdateLink(c.Request.Context(), user.ID, c.Param("link_id"), input)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *Handler) DeleteLink(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	if err := h.svc.DeleteLink(c.Request.Context(), user.ID, c.Param("link_id")); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Platform link deleted successfully"})
}

// ReorderLinks takes a bare JSON array of link ids.
func (h *Handler) ReorderLinks(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrInvalidToken)
		return
	}

	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a list of link ids"})
		return
	}

	links, err := h.svc.ReorderLinks(c.Request.Context(), user.ID, ids)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}
