package trash

import (
	"errors"
	"net/http"
	"strconv"

	"femida-backend/internal/modules/booking"
	"femida-backend/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/trash/:type", h.List)
	rg.POST("/trash/:type/:id/restore", h.Restore)
	rg.DELETE("/trash/:type/:id", h.Purge)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Param("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Restore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Restore(c.Request.Context(), c.Param("type"), id, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"restored": true})
}

func (h *Handler) Purge(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Purge(c.Request.Context(), c.Param("type"), id, c.GetInt64("user_id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"purged": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var conflict *booking.ConflictError
	switch {
	case errors.Is(err, ErrUnknownType):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "type must be bookings, rooms or guests")
	case errors.As(err, &conflict):
		// Restoring an active booking can collide with a booking made since.
		response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT", conflict.Error(),
			gin.H{"conflicting_booking_id": conflict.BookingID})
	case errors.Is(err, ErrNotFound), errors.Is(err, booking.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "not found in trash")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
