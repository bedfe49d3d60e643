package booking

import (
	"context"

	"go.uber.org/zap"

	"concierge/models"
	"concierge/services/calendar"
	"concierge/services/crm"
)

// Service books a meeting on the owner's calendar and mirrors it into the CRM.
type Service interface {
	Book(ctx context.Context, req models.BookMeetingRequest) (*models.BookingResult, error)
}

// DefaultService implements the booking sequence. The calendar booking is
// the authoritative, user-visible action and fails the whole request; the
// CRM mirror is best-effort and never blocks or rolls back a booking that
// already exists on the calendar.
type DefaultService struct {
	Calendar calendar.Service
	CRM      crm.Service
	Logger   *zap.Logger
}

// Book creates the calendar event first, then mirrors it into the CRM.
// A CRM failure is logged and surfaces only as a nil OdooEventID.
func (s *DefaultService) Book(ctx context.Context, req models.BookMeetingRequest) (*models.BookingResult, error) {
	ev, err := s.Calendar.CreateEvent(ctx, calendar.EventRequest{
		Subject:      req.Subject,
		Body:         req.Body,
		Start:        req.StartTime,
		End:          req.EndTime,
		Attendee:     req.Attendee,
		AttendeeName: req.AttendeeName,
		Phone:        req.Phone,
		Location:     req.Location,
	})
	if err != nil {
		return nil, err
	}

	result := &models.BookingResult{
		Status:         "Meeting booked",
		OutlookEventID: ev.ID,
		Subject:        ev.Subject,
		Start:          ev.Start,
		End:            ev.End,
		Attendee:       req.Attendee,
		Phone:          req.Phone,
	}

	recordID, err := s.CRM.CreateEvent(ctx, crm.EventInput{
		Subject:       req.Subject,
		AttendeeName:  req.AttendeeName,
		AttendeeEmail: req.Attendee,
		Phone:         req.Phone,
		Start:         req.StartTime,
		Stop:          req.EndTime,
	})
	if err != nil {
		s.logger().Warn("crm sync failed, booking kept",
			zap.String("outlookEventID", ev.ID),
			zap.Error(err),
		)
		return result, nil
	}

	result.OdooEventID = &recordID
	return result, nil
}

func (s *DefaultService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
