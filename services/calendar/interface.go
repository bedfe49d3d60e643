package calendar

import (
	"context"
	"encoding/json"

	"concierge/models"
)

// AvailabilityQuery is a candidate window to search for free slots.
type AvailabilityQuery struct {
	Start    string
	End      string
	Duration string // ISO 8601 duration, e.g. "PT1H"
}

// EventRequest carries everything needed to create a calendar event with an
// invitation for the attendee.
type EventRequest struct {
	Subject      string
	Body         string
	Start        string
	End          string
	Attendee     string
	AttendeeName string
	Phone        string
	Location     string
}

// Event is the created calendar event as reported by the upstream API.
type Event struct {
	ID      string           `json:"id"`
	Subject string           `json:"subject"`
	Start   models.EventTime `json:"start"`
	End     models.EventTime `json:"end"`
}

// Service defines the calendar operations, all scoped to the single owner
// mailbox the service is configured with.
type Service interface {
	FindMeetingTimes(ctx context.Context, q AvailabilityQuery) (json.RawMessage, error)
	CreateEvent(ctx context.Context, ev EventRequest) (*Event, error)
}
