package nota

import (
	"net/http"
	"strconv"

	"mnemosine-api/internal/errors"
	"mnemosine-api/internal/utils"

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

	resp, err := h.service.CreateNota(c.Request.Context(), userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Show(c *gin.Context) {
	notaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid nota id", err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.GetNota(c.Request.Context(), notaID, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ShowByContainer(c *gin.Context) {
	parentID, err := strconv.ParseUint(c.Param("parentId"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid container id", err))
		return
	}
	parent := ParentRef{Type: ParentType(c.Param("parentType")), ID: parentID}

	userID, _ := c.Get("user_id")

	notas, err := h.service.ListByContainer(c.Request.Context(), parent, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, notas)
}

func (h *Handler) Update(c *gin.Context) {
	notaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid nota id", err))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.UpdateNota(c.Request.Context(), notaID, userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type MoveRequest struct {
	NewParentID   uint64     `json:"new_parent_id" binding:"required"`
	NewParentType ParentType `json:"new_parent_type" binding:"required,oneof=caja cajita"`
}

func (h *Handler) Move(c *gin.Context) {
	notaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid nota id", err))
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	resp, err := h.service.MoveNota(
		c.Request.Context(),
		notaID,
		userID.(uint64),
		ParentRef{Type: req.NewParentType, ID: req.NewParentID},
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	notaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid nota id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteNota(c.Request.Context(), notaID, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Search(c *gin.Context) {
	userID, _ := c.Get("user_id")

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.SearchNotas(
		c.Request.Context(),
		userID.(uint64),
		c.Query("q"),
		page, pageSize,
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Etiquetas(c *gin.Context) {
	userID, _ := c.Get("user_id")

	etiquetas, err := h.service.Etiquetas(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, etiquetas)
}
