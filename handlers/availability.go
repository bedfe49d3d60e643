package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/models"
	"concierge/services/calendar"
	"concierge/utils"
)

// CheckAvailability relays a free-slot query to the calendar API and returns
// the upstream suggestion payload untouched.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	raw, err := h.calendar.FindMeetingTimes(c.Request.Context(), calendar.AvailabilityQuery{
		Start:    req.StartTime,
		End:      req.EndTime,
		Duration: req.Duration,
	})
	if err != nil {
		utils.UpstreamJSONError(c, "availability lookup failed", err)
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}
