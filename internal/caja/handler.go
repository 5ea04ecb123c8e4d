package caja

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

	resp, err := h.service.CreateCaja(c.Request.Context(), userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Show(c *gin.Context) {
	cajaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid caja id", err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.GetCajaTree(c.Request.Context(), cajaID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ShowByArmario(c *gin.Context) {
	armarioID, err := strconv.ParseUint(c.Param("armarioId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid armario id", err))
		return
	}

	userID, _ := c.Get("user_id")

	cajas, err := h.service.ListByArmario(c.Request.Context(), armarioID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cajas)
}

func (h *Handler) Update(c *gin.Context) {
	cajaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid caja id", err))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.UpdateCaja(c.Request.Context(), cajaID, userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	cajaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid caja id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteCaja(c.Request.Context(), cajaID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
