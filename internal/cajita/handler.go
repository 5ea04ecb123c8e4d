package cajita

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

	resp, err := h.service.CreateCajita(c.Request.Context(), userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Show(c *gin.Context) {
	cajitaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid cajita id", err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.GetCajitaTree(c.Request.Context(), cajitaID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ShowByCaja(c *gin.Context) {
	cajaID, err := strconv.ParseUint(c.Param("cajaId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid caja id", err))
		return
	}

	userID, _ := c.Get("user_id")

	cajitas, err := h.service.ListByCaja(c.Request.Context(), cajaID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cajitas)
}

func (h *Handler) Update(c *gin.Context) {
	cajitaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid cajita id", err))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.UpdateCajita(c.Request.Context(), cajitaID, userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	cajitaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid cajita id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteCajita(c.Request.Context(), cajitaID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
