package juvonno

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
}

func TestNewClientDerivesBaseURL(t *testing.T) {
	c := NewClient(Config{Subdomain: "medrehab"}, nil)
	assert.Equal(t, "https://medrehab.juvonno.com/api", c.baseURL)

	c = NewClient(Config{BaseURL: "http://localhost:8081/api/"}, nil)
	assert.Equal(t, "http://localhost:8081/api", c.baseURL)
}

func TestListBranchesSendsAPIKey(t *testing.T) {
	var gotKey, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{
			"list": []Branch{{ID: 4, Name: "MedRehab Group Pickering", Postal: "L1V1B5"}},
		})
	})

	branches, err := c.ListBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "/branches", gotPath)
	assert.Equal(t, 4, branches[0].ID)
}

func TestListServicesDataEnvelope(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []Service{{ID: 31, Name: "Registered Massage Therapy", Category: "Massage"}},
		})
	})

	services, err := c.ListServices(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "branch_id=4", gotQuery)
	assert.Equal(t, "Registered Massage Therapy", services[0].Name)
}

func TestSearchCustomersQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "905-555-0101", r.URL.Query().Get("phone"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"list": []Customer{{ID: 900, FirstName: "Sam"}},
		})
	})

	customers, err := c.SearchCustomers(context.Background(), CustomerQuery{Phone: "905-555-0101"})
	require.NoError(t, err)
	require.Len(t, customers, 1)

	_, err = c.SearchCustomers(context.Background(), CustomerQuery{})
	assert.Error(t, err)
}

func TestCreateCustomerEnvelopes(t *testing.T) {
	for _, wrapper := range []string{"customer", "data"} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var req CustomerRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(map[string]any{
				wrapper: Customer{ID: 901, FirstName: req.FirstName},
			})
		})

		created, err := c.CreateCustomer(context.Background(), CustomerRequest{FirstName: "Sam"})
		require.NoError(t, err, "wrapper %q", wrapper)
		assert.Equal(t, 901, created.ID)
	}
}

func TestCreateAppointment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 900, req.CustomerID)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"appointment": Appointment{ID: 5001, Status: "booked"},
		})
	})

	created, err := c.CreateAppointment(context.Background(), AppointmentRequest{
		CustomerID: 900, BranchID: 4, ServiceID: 31, Date: "2026-09-04", Time: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "booked", created.Status)
}

func TestNon2xxIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	})

	_, err := c.ListBranches(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestRequestHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListBranches(ctx)
	assert.Error(t, err)
}
