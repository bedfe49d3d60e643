package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"concierge/utils"
)

const defaultBaseURL = "https://api.twilio.com"

// TwilioService sends messages through the Twilio Messages API.
type TwilioService struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
	logger     *zap.Logger
}

// NewTwilioService creates an SMS client with the given account credentials
// and sender number.
func NewTwilioService(accountSID, authToken, from string, logger *zap.Logger) *TwilioService {
	return NewTwilioServiceWithBaseURL(accountSID, authToken, from, logger, defaultBaseURL)
}

// NewTwilioServiceWithBaseURL creates an SMS client against a custom gateway
// base URL.
func NewTwilioServiceWithBaseURL(accountSID, authToken, from string, logger *zap.Logger, baseURL string) *TwilioService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwilioService{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    baseURL,
		client:     http.DefaultClient,
		logger:     logger,
	}
}

// Send delivers one message. There is no retry; a gateway rejection comes
// back as an UpstreamError with the gateway's status and body.
func (s *TwilioService) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("SMS gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading SMS gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &utils.UpstreamError{Service: "twilio", Status: resp.StatusCode, Body: respBody}
	}

	s.logger.Info("sms sent", zap.String("to", to))
	return nil
}
