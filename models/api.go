package models

// AvailabilityRequest asks for free meeting slots inside a candidate window.
type AvailabilityRequest struct {
	StartTime string `json:"start_time" binding:"required"` // "2025-09-06T09:00:00"
	EndTime   string `json:"end_time" binding:"required"`   // "2025-09-06T18:00:00"
	Duration  string `json:"duration" binding:"required"`   // "PT1H" (ISO 8601 duration)
}

// BookMeetingRequest books a meeting on the owner's calendar.
type BookMeetingRequest struct {
	Subject      string `json:"subject" binding:"required"`
	Body         string `json:"body"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	Attendee     string `json:"attendee" binding:"required,email"` // guest email
	AttendeeName string `json:"attendee_name"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
}

// ApplyDefaults fills the optional booking fields the caller left out.
func (r *BookMeetingRequest) ApplyDefaults() {
	if r.AttendeeName == "" {
		r.AttendeeName = "Guest"
	}
	if r.Location == "" {
		r.Location = "Microsoft Teams Meeting"
	}
}

// EventTime mirrors the calendar API's dateTime/timeZone pair.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// BookingResult is the outcome of a booking request. OdooEventID is nil
// whenever the CRM mirror step failed; the calendar booking itself is
// authoritative and always present on success.
type BookingResult struct {
	Status         string    `json:"status"`
	OutlookEventID string    `json:"outlook_event_id"`
	OdooEventID    *int      `json:"odoo_event_id"`
	Subject        string    `json:"subject"`
	Start          EventTime `json:"start"`
	End            EventTime `json:"end"`
	Attendee       string    `json:"attendee"`
	Phone          string    `json:"phone"`
}

// SMSConfirmationRequest asks for a confirmation text about a booked slot.
type SMSConfirmationRequest struct {
	Phone     string `json:"phone" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}
