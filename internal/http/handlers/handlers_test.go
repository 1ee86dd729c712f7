package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrehab/clinic-concierge/internal/booking"
	"github.com/medrehab/clinic-concierge/internal/locations"
)

type stubDirectory struct{}

func (stubDirectory) ListBranches(ctx context.Context) ([]booking.Branch, error) {
	return []booking.Branch{
		{ID: "4", Name: "MedRehab Group Pickering"},
		{ID: "5", Name: "MedRehab Group Toronto"},
	}, nil
}

func (stubDirectory) ListServices(ctx context.Context, branchID string) ([]booking.Service, error) {
	return []booking.Service{{ID: "31", Name: "Massage Therapy", Category: "Massage"}}, nil
}

func (stubDirectory) ListPractitioners(ctx context.Context, branchID string) ([]booking.Practitioner, error) {
	return nil, nil
}

func (stubDirectory) FindCustomer(ctx context.Context, query booking.CustomerQuery) (*booking.Customer, error) {
	return &booking.Customer{ID: "900", FirstName: "Sam", Email: "sam@example.com"}, nil
}

func (stubDirectory) CreateCustomer(ctx context.Context, customer booking.NewCustomer) (*booking.Customer, error) {
	return &booking.Customer{ID: "901"}, nil
}

func (stubDirectory) CreateAppointment(ctx context.Context, req booking.AppointmentRequest) (*booking.Appointment, error) {
	return &booking.Appointment{ID: "5001", Status: "booked"}, nil
}

func newTestTools(t *testing.T) *ToolsHandler {
	t.Helper()
	snapshot := locations.NewSnapshot()
	snapshot.Replace(locations.ReferenceDirectory(), time.Now())

	orchestrator, err := booking.NewOrchestrator(booking.OrchestratorConfig{Directory: stubDirectory{}})
	require.NoError(t, err)

	return NewToolsHandler(snapshot, orchestrator, nil, nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthStatus(t *testing.T) {
	snapshot := locations.NewSnapshot()
	snapshot.Replace(locations.ReferenceDirectory(), time.Now())
	h := NewHealthHandler(snapshot)

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 12, body["locations_loaded"])
}

func TestFindLocationExactPostal(t *testing.T) {
	h := newTestTools(t)
	rec := postJSON(t, h.FindLocation, `{"postal_code":"L1V 1B5"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.MatchedExactly)
	require.NotEmpty(t, resp.Locations)
	assert.Equal(t, "MedRehab Group Pickering", resp.Locations[0].Name)
}

func TestFindLocationEmptyQuery(t *testing.T) {
	h := newTestTools(t)
	rec := postJSON(t, h.FindLocation, `{"postal_code":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindLocationInvalidBody(t *testing.T) {
	h := newTestTools(t)
	rec := postJSON(t, h.FindLocation, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLocations(t *testing.T) {
	h := newTestTools(t)
	rec := postJSON(t, h.GetLocations, `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Locations, 12)
	assert.Contains(t, resp.Message, "12 MedRehab Group locations")
}

func TestBookAppointment(t *testing.T) {
	h := newTestTools(t)
	rec := postJSON(t, h.BookAppointment, `{
		"branch_name": "Pickering",
		"service_name": "Massage Therapy",
		"date": "2026-09-04",
		"time": "10:00",
		"customer": {"first_name": "Sam", "last_name": "Ortiz", "phone": "905-555-0101"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "5001", resp.Booking.AppointmentID)
}

func TestBookAppointmentUnknownBranch(t *testing.T) {
	h := newTestTools(t)
	rec := postJSON(t, h.BookAppointment, `{
		"branch_name": "Ottawa",
		"service_name": "Massage Therapy",
		"date": "2026-09-04",
		"time": "10:00",
		"customer": {"first_name": "Sam"}
	}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinic location")
}

func TestBookAppointmentMissingFields(t *testing.T) {
	h := newTestTools(t)
	rec := postJSON(t, h.BookAppointment, `{"branch_name": "Pickering"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func rpcCall(t *testing.T, h *MCPHandler, body string) rpcResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestMCPToolsList(t *testing.T) {
	h := NewMCPHandler(newTestTools(t), nil)
	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	require.Nil(t, resp.Error)
	payload, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "find_location_by_postal_code")
	assert.Contains(t, string(payload), "book_appointment")
}

func TestMCPToolCallFindLocation(t *testing.T) {
	h := NewMCPHandler(newTestTools(t), nil)
	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":2,"method":"tools/call",
		"params":{"name":"find_location_by_postal_code","arguments":{"postal_code":"L1V 1B5"}}}`)

	require.Nil(t, resp.Error)
	payload, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Pickering")
}

func TestMCPToolCallBookAppointment(t *testing.T) {
	h := NewMCPHandler(newTestTools(t), nil)
	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":3,"method":"tools/call",
		"params":{"name":"book_appointment","arguments":{
			"branch_name":"Pickering","service_name":"Massage Therapy",
			"date":"2026-09-04","time":"10:00",
			"customer":{"first_name":"Sam","phone":"905-555-0101"}}}}`)

	require.Nil(t, resp.Error)
	payload, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "booked")
}

func TestMCPMethodNotFound(t *testing.T) {
	h := NewMCPHandler(newTestTools(t), nil)
	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":4,"method":"resources/list"}`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestMCPUnknownTool(t *testing.T) {
	h := NewMCPHandler(newTestTools(t), nil)
	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"cancel_appointment"}}`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestMCPMissingArguments(t *testing.T) {
	h := NewMCPHandler(newTestTools(t), nil)
	resp := rpcCall(t, h, `{"jsonrpc":"2.0","id":6,"method":"tools/call",
		"params":{"name":"find_location_by_postal_code","arguments":{}}}`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestMCPParseError(t *testing.T) {
	h := NewMCPHandler(newTestTools(t), nil)
	resp := rpcCall(t, h, `{broken`)

	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)
}
