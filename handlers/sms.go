package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/models"
	"concierge/utils"
)

// SendSMSConfirmation texts the caller a confirmation of their booked slot.
// Unparseable timestamps are an explicit 400; the message is never sent with
// fallback text.
func (h *Handler) SendSMSConfirmation(c *gin.Context) {
	var req models.SMSConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	start, err := utils.FormatHuman(req.StartTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_time", err.Error())
		return
	}
	end, err := utils.FormatHuman(req.EndTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end_time", err.Error())
		return
	}

	body := fmt.Sprintf("Your meeting with %s has been scheduled for %s to %s.", h.cfg.OwnerName, start, end)
	if h.cfg.CallbackNumber != "" {
		body += fmt.Sprintf(" If you need to make any changes please call: %s", h.cfg.CallbackNumber)
	}

	if err := h.sms.Send(c.Request.Context(), req.Phone, body); err != nil {
		utils.UpstreamJSONError(c, "sms send failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "SMS sent"})
}
