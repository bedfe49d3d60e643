package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"concierge/models"
	"concierge/utils"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// graphTimeZone is the timezone label attached to every dateTime sent
// upstream. Inbound timestamps are stripped of their own offsets first.
const graphTimeZone = "Cen. Australia Standard Time"

// GraphService talks to the Microsoft Graph calendar API on behalf of a
// single owner mailbox.
type GraphService struct {
	tokens  TokenProvider
	owner   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewGraphService creates a calendar client for the given owner mailbox.
func NewGraphService(tokens TokenProvider, owner string, logger *zap.Logger) *GraphService {
	return NewGraphServiceWithBaseURL(tokens, owner, logger, defaultBaseURL)
}

// NewGraphServiceWithBaseURL creates a calendar client against a custom API
// base URL.
func NewGraphServiceWithBaseURL(tokens TokenProvider, owner string, logger *zap.Logger, baseURL string) *GraphService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphService{
		tokens:  tokens,
		owner:   owner,
		baseURL: baseURL,
		client:  http.DefaultClient,
		logger:  logger,
	}
}

type emailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type attendee struct {
	Type         string       `json:"type"`
	EmailAddress emailAddress `json:"emailAddress"`
}

type timeslot struct {
	Start models.EventTime `json:"start"`
	End   models.EventTime `json:"end"`
}

type timeConstraint struct {
	Timeslots []timeslot `json:"timeslots"`
}

type findMeetingTimesRequest struct {
	Attendees       []attendee     `json:"attendees"`
	TimeConstraint  timeConstraint `json:"timeConstraint"`
	MeetingDuration string         `json:"meetingDuration"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type displayLocation struct {
	DisplayName string `json:"displayName"`
}

type eventRequestBody struct {
	Subject               string           `json:"subject"`
	Body                  itemBody         `json:"body"`
	Start                 models.EventTime `json:"start"`
	End                   models.EventTime `json:"end"`
	Location              displayLocation  `json:"location"`
	Attendees             []attendee       `json:"attendees"`
	IsOnlineMeeting       bool             `json:"isOnlineMeeting"`
	OnlineMeetingProvider string           `json:"onlineMeetingProvider"`
}

// FindMeetingTimes queries the owner's free/busy suggestions for one
// candidate window and returns the upstream payload untouched.
func (s *GraphService) FindMeetingTimes(ctx context.Context, q AvailabilityQuery) (json.RawMessage, error) {
	payload := findMeetingTimesRequest{
		Attendees: []attendee{
			{Type: "required", EmailAddress: emailAddress{Address: s.owner, Name: "Owner"}},
		},
		TimeConstraint: timeConstraint{
			Timeslots: []timeslot{
				{
					Start: models.EventTime{DateTime: utils.StripOffset(q.Start), TimeZone: graphTimeZone},
					End:   models.EventTime{DateTime: utils.StripOffset(q.End), TimeZone: graphTimeZone},
				},
			},
		},
		MeetingDuration: q.Duration,
	}

	status, body, err := s.post(ctx, fmt.Sprintf("%s/users/%s/findMeetingTimes", s.baseURL, s.owner), payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &utils.UpstreamError{Service: "microsoft graph", Status: status, Body: body}
	}
	return json.RawMessage(body), nil
}

// CreateEvent creates an online meeting on the owner's calendar and has the
// invitation mailed to the attendee.
func (s *GraphService) CreateEvent(ctx context.Context, ev EventRequest) (*Event, error) {
	content := fmt.Sprintf(
		"%s<br><br><b>Caller details:</b><br>Name: %s<br>Email: %s<br>Phone: %s",
		ev.Body, ev.AttendeeName, ev.Attendee, ev.Phone,
	)
	payload := eventRequestBody{
		Subject: ev.Subject,
		Body:    itemBody{ContentType: "HTML", Content: content},
		Start:   models.EventTime{DateTime: ev.Start, TimeZone: graphTimeZone},
		End:     models.EventTime{DateTime: ev.End, TimeZone: graphTimeZone},
		Location: displayLocation{
			DisplayName: ev.Location,
		},
		Attendees: []attendee{
			{Type: "required", EmailAddress: emailAddress{Address: ev.Attendee, Name: ev.AttendeeName}},
		},
		IsOnlineMeeting:       true,
		OnlineMeetingProvider: "teamsForBusiness",
	}

	status, body, err := s.post(ctx, fmt.Sprintf("%s/users/%s/events?sendInvitations=true", s.baseURL, s.owner), payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, &utils.UpstreamError{Service: "microsoft graph", Status: status, Body: body}
	}

	var created Event
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decoding created event: %w", err)
	}
	s.logger.Info("calendar event created", zap.String("eventID", created.ID))
	return &created, nil
}

// post acquires a fresh token, sends the payload and returns the response
// status with its full body.
func (s *GraphService) post(ctx context.Context, url string, payload any) (int, []byte, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return 0, nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encoding request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("calendar API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading calendar API response: %w", err)
	}
	return resp.StatusCode, body, nil
}
