package attachment

import (
	"net/http"
	"strconv"

	"mnemosine-api/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Add accepts either a multipart file upload or a link form.
func (h *Handler) Add(c *gin.Context) {
	notaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid nota id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if file, err := c.FormFile("file"); err == nil {
		attachment, err := h.service.AddFile(c.Request.Context(), notaID, userID.(uint64), file)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
		return
	}

	if linkURL := c.PostForm("link_url"); linkURL != "" {
		attachment, err := h.service.AddLink(c.Request.Context(), notaID, userID.(uint64), linkURL, c.PostForm("link_type"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
		return
	}

	c.Error(errors.BadRequest("A file or a link must be provided", nil))
}

func (h *Handler) Remove(c *gin.Context) {
	notaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid nota id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.Remove(c.Request.Context(), notaID, userID.(uint64), c.Param("attachmentId")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) List(c *gin.Context) {
	notaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid nota id", err))
		return
	}

	userID, _ := c.Get("user_id")

	attachments, err := h.service.List(c.Request.Context(), notaID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}
