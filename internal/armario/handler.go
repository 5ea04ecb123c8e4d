package armario

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

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.CreateArmario(c.Request.Context(), userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ShowAll(c *gin.Context) {
	userID, _ := c.Get("user_id")

	trees, err := h.service.ListArmarioTrees(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, trees)
}

func (h *Handler) Show(c *gin.Context) {
	armarioID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid armario id", err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.GetArmarioTree(c.Request.Context(), armarioID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Update(c *gin.Context) {
	armarioID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid armario id", err))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.UpdateArmario(c.Request.Context(), armarioID, userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	armarioID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid armario id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteArmario(c.Request.Context(), armarioID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
