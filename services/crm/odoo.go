package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"concierge/utils"
)

// OdooService talks to an Odoo server over its generic JSON-RPC endpoint.
// Every operation opens its own session: authenticate first, then execute
// the object call with the returned user id.
type OdooService struct {
	baseURL string
	db      string
	user    string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewOdooService creates a CRM client for the given Odoo instance.
func NewOdooService(baseURL, db, user, apiKey string, logger *zap.Logger) *OdooService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OdooService{
		baseURL: baseURL,
		db:      db,
		user:    user,
		apiKey:  apiKey,
		client:  http.DefaultClient,
		logger:  logger,
	}
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int       `json:"id"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// call performs one JSON-RPC round trip and returns the raw result.
func (s *OdooService) call(ctx context.Context, service, method string, args []any) (json.RawMessage, error) {
	raw, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding RPC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/jsonrpc", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CRM request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading CRM response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &utils.UpstreamError{Service: "odoo", Status: resp.StatusCode, Body: body}
	}

	var rpc rpcResponse
	if err := json.Unmarshal(body, &rpc); err != nil {
		return nil, fmt.Errorf("decoding CRM response: %w", err)
	}
	if rpc.Error != nil {
		detail, _ := json.Marshal(rpc.Error)
		return nil, &utils.UpstreamError{Service: "odoo", Status: resp.StatusCode, Body: detail}
	}
	return rpc.Result, nil
}

// authenticate opens a session and returns the numeric user id. Odoo answers
// with `false` instead of an id when the credentials are wrong, which is why
// anything but an integer is treated as an authentication failure.
func (s *OdooService) authenticate(ctx context.Context) (int, error) {
	result, err := s.call(ctx, "common", "authenticate", []any{s.db, s.user, s.apiKey, map[string]any{}})
	if err != nil {
		return 0, err
	}
	var uid int
	if err := json.Unmarshal(result, &uid); err != nil {
		return 0, &utils.AuthError{Provider: "odoo", Reason: fmt.Sprintf("authenticate returned %s", string(result))}
	}
	return uid, nil
}

// CreateEvent mirrors a booking into the CRM calendar and returns the new
// record id.
func (s *OdooService) CreateEvent(ctx context.Context, ev EventInput) (int, error) {
	uid, err := s.authenticate(ctx)
	if err != nil {
		return 0, err
	}

	fields := map[string]any{
		"name":        fmt.Sprintf("%s - %s", ev.Subject, ev.AttendeeName),
		"start":       utils.ToNaive(ev.Start),
		"stop":        utils.ToNaive(ev.Stop),
		"description": fmt.Sprintf("Booked for %s (%s). Phone: %s", ev.AttendeeName, ev.AttendeeEmail, ev.Phone),
	}
	result, err := s.call(ctx, "object", "execute_kw",
		[]any{s.db, uid, s.apiKey, "calendar.event", "create", []any{fields}})
	if err != nil {
		return 0, err
	}

	var id int
	if err := json.Unmarshal(result, &id); err != nil {
		return 0, fmt.Errorf("decoding created record id from %s: %w", string(result), err)
	}
	s.logger.Info("crm event created", zap.Int("recordID", id))
	return id, nil
}

// Version fetches the server version over the common service.
func (s *OdooService) Version(ctx context.Context) (json.RawMessage, error) {
	return s.call(ctx, "common", "version", []any{})
}
