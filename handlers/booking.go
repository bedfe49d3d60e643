package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/models"
	"concierge/utils"
)

// BookMeeting books a meeting on the owner's calendar and mirrors it into
// the CRM. Only a calendar failure fails the request; a CRM failure leaves
// odoo_event_id null in an otherwise successful response.
func (h *Handler) BookMeeting(c *gin.Context) {
	var req models.BookMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.ApplyDefaults()

	result, err := h.booking.Book(c.Request.Context(), req)
	if err != nil {
		utils.UpstreamJSONError(c, "calendar booking failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
