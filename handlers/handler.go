package handlers

import (
	"go.uber.org/zap"

	"concierge/config"
	"concierge/services/booking"
	"concierge/services/calendar"
	"concierge/services/crm"
	"concierge/services/sms"
)

// Handler groups the HTTP handlers with their injected services.
type Handler struct {
	cfg      *config.Config
	calendar calendar.Service
	booking  booking.Service
	crm      crm.Service
	sms      sms.Service
	logger   *zap.Logger
}

// New assembles the handler set.
func New(cfg *config.Config, cal calendar.Service, book booking.Service, crmSvc crm.Service, smsSvc sms.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:      cfg,
		calendar: cal,
		booking:  book,
		crm:      crmSvc,
		sms:      smsSvc,
		logger:   logger,
	}
}
