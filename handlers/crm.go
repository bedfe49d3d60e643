package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/utils"
)

// CRMStatus returns the CRM server's version payload. Diagnostic endpoint;
// failures surface directly.
func (h *Handler) CRMStatus(c *gin.Context) {
	raw, err := h.crm.Version(c.Request.Context())
	if err != nil {
		utils.UpstreamJSONError(c, "crm version check failed", err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
