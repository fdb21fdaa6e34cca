package handlers

import (
	"github.com/gin-gonic/gin"

	"hospital-frontdesk-server/internal/reminders"
	"hospital-frontdesk-server/internal/utils"
)

// ReminderHandler serves the current prioritized reminder list.
type ReminderHandler struct {
	Poller *reminders.Poller
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(poller *reminders.Poller) *ReminderHandler {
	return &ReminderHandler{Poller: poller}
}

// GetReminders returns the latest reminder list. ?refresh=true forces a
// fresh pass instead of serving the cached one from the last tick.
func (h *ReminderHandler) GetReminders(c *gin.Context) {
	if c.Query("refresh") == "true" {
		h.Poller.Refresh(c.Request.Context())
	}
	utils.Success(c, "Reminders fetched successfully", h.Poller.Current())
}
