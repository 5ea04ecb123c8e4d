package reminder

import (
	"net/http"
	"strconv"

	"mnemosine-api/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	scanner *Scanner
}

func NewHandler(service Service, scanner *Scanner) *Handler {
	return &Handler{service: service, scanner: scanner}
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	reminder, err := h.service.CreateEventReminder(c.Request.Context(), userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

func (h *Handler) ListEvents(c *gin.Context) {
	userID, _ := c.Get("user_id")

	reminders, err := h.service.ListEventReminders(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

func (h *Handler) ShowEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid reminder id", err))
		return
	}

	userID, _ := c.Get("user_id")

	reminder, err := h.service.GetEventReminder(c.Request.Context(), id, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *Handler) ShowByEvent(c *gin.Context) {
	userID, _ := c.Get("user_id")

	reminder, err := h.service.GetEventReminderByEvent(c.Request.Context(), c.Param("eventId"), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *Handler) UpdateByEvent(c *gin.Context) {
	var req EventReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	reminder, err := h.service.UpdateEventReminderByEvent(c.Request.Context(), c.Param("eventId"), userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid reminder id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteEventReminder(c.Request.Context(), id, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteByEvent(c *gin.Context) {
	userID, _ := c.Get("user_id")

	if err := h.service.DeleteEventReminderByEvent(c.Request.Context(), c.Param("eventId"), userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateInternal(c *gin.Context) {
	var req InternalReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	reminder, err := h.service.CreateInternalReminder(c.Request.Context(), userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

func (h *Handler) ListInternal(c *gin.Context) {
	userID, _ := c.Get("user_id")

	reminders, err := h.service.ListInternalReminders(c.Request.Context(), userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

func (h *Handler) ShowInternal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid reminder id", err))
		return
	}

	userID, _ := c.Get("user_id")

	reminder, err := h.service.GetInternalReminder(c.Request.Context(), id, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *Handler) UpdateInternal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid reminder id", err))
		return
	}

	var req InternalReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := c.Get("user_id")

	reminder, err := h.service.UpdateInternalReminder(c.Request.Context(), id, userID.(uint64), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *Handler) ToggleCompleted(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid reminder id", err))
		return
	}

	userID, _ := c.Get("user_id")

	reminder, err := h.service.ToggleCompleted(c.Request.Context(), id, userID.(uint64))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

func (h *Handler) DeleteInternal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid reminder id", err))
		return
	}

	userID, _ := c.Get("user_id")

	if err := h.service.DeleteInternalReminder(c.Request.Context(), id, userID.(uint64)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckReminders is the external scheduler trigger. It funnels through
// the same single-flight guard as the ticker.
func (h *Handler) CheckReminders(c *gin.Context) {
	result := h.scanner.RunOnce(c.Request.Context())
	c.JSON(http.StatusOK, result)
}
