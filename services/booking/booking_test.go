package booking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/models"
	"concierge/services/calendar"
	"concierge/services/crm"
	"concierge/utils"
)

type fakeCalendar struct {
	createCalls int
	event       *calendar.Event
	err         error
}

func (f *fakeCalendar) FindMeetingTimes(ctx context.Context, q calendar.AvailabilityQuery) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, ev calendar.EventRequest) (*calendar.Event, error) {
	f.createCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

type fakeCRM struct {
	createCalls int
	recordID    int
	err         error
	lastInput   crm.EventInput
}

func (f *fakeCRM) CreateEvent(ctx context.Context, ev crm.EventInput) (int, error) {
	f.createCalls++
	f.lastInput = ev
	if f.err != nil {
		return 0, f.err
	}
	return f.recordID, nil
}

func (f *fakeCRM) Version(ctx context.Context) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func bookingRequest() models.BookMeetingRequest {
	return models.BookMeetingRequest{
		Subject:      "Intro call",
		Body:         "Discuss the project",
		StartTime:    "2025-10-16T10:00:00",
		EndTime:      "2025-10-16T11:00:00",
		Attendee:     "a@b.com",
		AttendeeName: "Alex",
		Phone:        "+61400000000",
		Location:     "Microsoft Teams Meeting",
	}
}

func TestBook_CalendarAndCRMSucceed(t *testing.T) {
	cal := &fakeCalendar{event: &calendar.Event{
		ID:      "E1",
		Subject: "Intro call",
		Start:   models.EventTime{DateTime: "2025-10-16T10:00:00.0000000", TimeZone: "Cen. Australia Standard Time"},
		End:     models.EventTime{DateTime: "2025-10-16T11:00:00.0000000", TimeZone: "Cen. Australia Standard Time"},
	}}
	crmSvc := &fakeCRM{recordID: 42}
	svc := &DefaultService{Calendar: cal, CRM: crmSvc}

	result, err := svc.Book(context.Background(), bookingRequest())
	require.NoError(t, err)

	assert.Equal(t, "Meeting booked", result.Status)
	assert.Equal(t, "E1", result.OutlookEventID)
	require.NotNil(t, result.OdooEventID)
	assert.Equal(t, 42, *result.OdooEventID)
	assert.Equal(t, "a@b.com", result.Attendee)
	assert.Equal(t, 1, cal.createCalls)
	assert.Equal(t, 1, crmSvc.createCalls)
	assert.Equal(t, "Intro call", crmSvc.lastInput.Subject)
	assert.Equal(t, "Alex", crmSvc.lastInput.AttendeeName)
}

func TestBook_CRMFailureIsAbsorbed(t *testing.T) {
	cal := &fakeCalendar{event: &calendar.Event{ID: "E1", Subject: "Intro call"}}
	crmSvc := &fakeCRM{err: &utils.UpstreamError{Service: "odoo", Status: 200, Body: []byte(`{"message":"Odoo Server Error"}`)}}
	svc := &DefaultService{Calendar: cal, CRM: crmSvc}

	result, err := svc.Book(context.Background(), bookingRequest())
	require.NoError(t, err)

	assert.Equal(t, "Meeting booked", result.Status)
	assert.Equal(t, "E1", result.OutlookEventID)
	assert.Nil(t, result.OdooEventID)
	assert.Equal(t, 1, crmSvc.createCalls)
}

func TestBook_CalendarFailureSkipsCRM(t *testing.T) {
	upstreamErr := &utils.UpstreamError{Service: "microsoft graph", Status: 409, Body: []byte(`{"error":{"code":"conflict"}}`)}
	cal := &fakeCalendar{err: upstreamErr}
	crmSvc := &fakeCRM{recordID: 42}
	svc := &DefaultService{Calendar: cal, CRM: crmSvc}

	result, err := svc.Book(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Nil(t, result)

	var upErr *utils.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 409, upErr.Status)

	// The CRM mirror must never run when the primary booking failed.
	assert.Equal(t, 0, crmSvc.createCalls)
	assert.Equal(t, 1, cal.createCalls)
}
