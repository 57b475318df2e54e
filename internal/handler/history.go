package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stemsplitter/tracker/internal/history"
	"github.com/stemsplitter/tracker/internal/view"
	"github.com/stemsplitter/tracker/pkg/response"
)

type HistoryHandler struct {
	sync *history.Synchronizer
}

func NewHistoryHandler(sync *history.Synchronizer) *HistoryHandler {
	return &HistoryHandler{sync: sync}
}

// List handles GET /api/history
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{
		"jobs":  view.NewHistoryEntries(h.sync.Snapshot(), time.Now()),
		"stats": h.sync.Stats(),
	})
}

// Refresh handles POST /api/history/refresh
func (h *HistoryHandler) Refresh(c *fiber.Ctx) error {
	h.sync.RequestRefresh()
	return response.Accepted(c, fiber.Map{"status": "refresh requested"})
}

// Clear handles DELETE /api/history?confirm=true
func (h *HistoryHandler) Clear(c *fiber.Ctx) error {
	if err := h.sync.Clear(c.QueryBool("confirm")); err != nil {
		if errors.Is(err, history.ErrClearNotConfirmed) {
			return response.ValidationError(c, "Clearing history requires confirm=true", nil)
		}
		return response.ServiceError(c, err.Error())
	}
	return response.NoContent(c)
}
