package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/config"
	"concierge/models"
	"concierge/services/booking"
	"concierge/services/calendar"
	"concierge/services/crm"
	"concierge/services/sms"
)

// upstreams hosts stub servers for every external dependency of the API.
type upstreams struct {
	graph    *httptest.Server
	odoo     *httptest.Server
	twilio   *httptest.Server
	token    *httptest.Server
	crmCalls *atomic.Int64
	smsForm  *map[string]string
}

func newUpstreams(t *testing.T, graphHandler http.HandlerFunc, odooCreateResponse string) *upstreams {
	t.Helper()

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(token.Close)

	graph := httptest.NewServer(graphHandler)
	t.Cleanup(graph.Close)

	var crmCalls atomic.Int64
	odoo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Params struct {
				Method string `json:"method"`
			} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		switch req.Params.Method {
		case "authenticate":
			crmCalls.Add(1)
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":7}`))
		case "version":
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"server_version":"17.0"}}`))
		default:
			_, _ = w.Write([]byte(odooCreateResponse))
		}
	}))
	t.Cleanup(odoo.Close)

	smsForm := map[string]string{}
	twilio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		smsForm["To"] = r.PostForm.Get("To")
		smsForm["Body"] = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	}))
	t.Cleanup(twilio.Close)

	return &upstreams{graph: graph, odoo: odoo, twilio: twilio, token: token, crmCalls: &crmCalls, smsForm: &smsForm}
}

func newTestRouter(t *testing.T, up *upstreams) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		OwnerEmail:     "owner@example.com",
		OwnerName:      "Tracey",
		CallbackNumber: "0483 905 455",
	}

	tokens := calendar.NewClientCredentialsWithTokenURL("client", "secret", up.token.URL)
	calendarService := calendar.NewGraphServiceWithBaseURL(tokens, cfg.OwnerEmail, nil, up.graph.URL)
	crmService := crm.NewOdooService(up.odoo.URL, "mydb", "bot@example.com", "key123", nil)
	smsService := sms.NewTwilioServiceWithBaseURL("AC123", "secret-token", "+61499999999", nil, up.twilio.URL)
	bookingService := &booking.DefaultService{Calendar: calendarService, CRM: crmService}

	h := New(cfg, calendarService, bookingService, crmService, smsService, nil)

	r := gin.New()
	r.POST("/availability", h.CheckAvailability)
	r.POST("/book", h.BookMeeting)
	r.POST("/sms_confirmation", h.SendSMSConfirmation)
	r.GET("/test-odoo", h.CRMStatus)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createdEventHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "E1",
			"subject": "Intro call",
			"start": {"dateTime": "2025-10-16T10:00:00.0000000", "timeZone": "Cen. Australia Standard Time"},
			"end": {"dateTime": "2025-10-16T11:00:00.0000000", "timeZone": "Cen. Australia Standard Time"}
		}`))
	}
}

const bookBody = `{
	"subject": "Intro call",
	"body": "Discuss the project",
	"start_time": "2025-10-16T10:00:00",
	"end_time": "2025-10-16T11:00:00",
	"attendee": "a@b.com"
}`

func TestBookMeeting_FullSuccess(t *testing.T) {
	up := newUpstreams(t, createdEventHandler(t), `{"jsonrpc":"2.0","id":1,"result":42}`)
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/book", bookBody)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.BookingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Meeting booked", result.Status)
	assert.Equal(t, "E1", result.OutlookEventID)
	require.NotNil(t, result.OdooEventID)
	assert.Equal(t, 42, *result.OdooEventID)
	assert.Equal(t, "a@b.com", result.Attendee)
}

func TestBookMeeting_CRMOutageStillBooks(t *testing.T) {
	up := newUpstreams(t, createdEventHandler(t),
		`{"jsonrpc":"2.0","id":1,"error":{"code":200,"message":"Odoo Server Error"}}`)
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/book", bookBody)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.BookingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "E1", result.OutlookEventID)
	assert.Nil(t, result.OdooEventID)
}

func TestBookMeeting_CalendarConflictAbortsBeforeCRM(t *testing.T) {
	conflict := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"conflict","message":"overlapping event"}}`))
	}
	up := newUpstreams(t, conflict, `{"jsonrpc":"2.0","id":1,"result":42}`)
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/book", bookBody)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "overlapping event")

	// The CRM must never have been touched.
	assert.Equal(t, int64(0), up.crmCalls.Load())
}

func TestBookMeeting_InvalidInput(t *testing.T) {
	up := newUpstreams(t, createdEventHandler(t), `{"jsonrpc":"2.0","id":1,"result":42}`)
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/book", `{"subject": "no times"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAvailability_PassesThroughUpstreamPayload(t *testing.T) {
	suggestions := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/owner@example.com/findMeetingTimes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meetingTimeSuggestions":[{"confidence":100}]}`))
	}
	up := newUpstreams(t, suggestions, "")
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/availability",
		`{"start_time":"2025-09-06T09:00:00+09:30","end_time":"2025-09-06T18:00:00+09:30","duration":"PT1H"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"meetingTimeSuggestions":[{"confidence":100}]}`, w.Body.String())
}

func TestCheckAvailability_UpstreamErrorRelayed(t *testing.T) {
	denied := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"ErrorAccessDenied"}}`))
	}
	up := newUpstreams(t, denied, "")
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/availability",
		`{"start_time":"2025-09-06T09:00:00","end_time":"2025-09-06T18:00:00","duration":"PT1H"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ErrorAccessDenied")
}

func TestSendSMSConfirmation(t *testing.T) {
	up := newUpstreams(t, createdEventHandler(t), "")
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/sms_confirmation",
		`{"phone":"+61400000000","start_time":"2025-10-16T00:30:00Z","end_time":"2025-10-16T01:30:00Z"}`)
	require.Equal(t, http.StatusOK, w.Code)

	form := *up.smsForm
	assert.Equal(t, "+61400000000", form["To"])
	assert.Contains(t, form["Body"], "Your meeting with Tracey")
	assert.Contains(t, form["Body"], "16 Oct 2025, 11:00 AM")
	assert.Contains(t, form["Body"], "16 Oct 2025, 12:00 PM")
	assert.Contains(t, form["Body"], "0483 905 455")
}

func TestSendSMSConfirmation_BadTimestamp(t *testing.T) {
	up := newUpstreams(t, createdEventHandler(t), "")
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodPost, "/sms_confirmation",
		`{"phone":"+61400000000","start_time":"next tuesday","end_time":"2025-10-16T01:30:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid start_time")

	// The gateway must not have been called.
	assert.Empty(t, *up.smsForm)
}

func TestCRMStatus(t *testing.T) {
	up := newUpstreams(t, createdEventHandler(t), "")
	r := newTestRouter(t, up)

	w := doJSON(t, r, http.MethodGet, "/test-odoo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"server_version":"17.0"}`, w.Body.String())
}
