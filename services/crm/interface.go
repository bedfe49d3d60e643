package crm

import (
	"context"
	"encoding/json"
)

// EventInput carries the booking fields mirrored into the CRM calendar.
type EventInput struct {
	Subject       string
	AttendeeName  string
	AttendeeEmail string
	Phone         string
	Start         string
	Stop          string
}

// Service defines the CRM operations used by the booking flow.
type Service interface {
	// CreateEvent mirrors a booked meeting as a CRM calendar event and
	// returns the new record id.
	CreateEvent(ctx context.Context, ev EventInput) (int, error)
	// Version returns the raw server version payload, used as a
	// connectivity diagnostic.
	Version(ctx context.Context) (json.RawMessage, error)
}
