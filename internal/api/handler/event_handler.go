package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ewout/snapvault/internal/api/dto"
	"github.com/ewout/snapvault/internal/core/repository"
)

const defaultEventLimit = 50

type EventHandler struct {
	eventRepo repository.EventRepository
}

func NewEventHandler(eventRepo repository.EventRepository) *EventHandler {
	return &EventHandler{
		eventRepo: eventRepo,
	}
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventLimit)))
	if err != nil || limit <= 0 {
		limit = defaultEventLimit
	}

	events, err := h.eventRepo.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list backup events",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	response := dto.EventListResponse{Items: make([]dto.EventResponse, len(events))}
	for i, event := range events {
		response.Items[i] = dto.EventResponse{
			ID:           event.ID,
			Operation:    string(event.Operation),
			SnapshotName: event.SnapshotName,
			Status:       string(event.Status),
			Detail:       event.Detail,
			CreatedAt:    event.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}
