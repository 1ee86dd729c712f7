package juvonno

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medrehab/clinic-concierge/pkg/logging"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "clinic-concierge/1.0"
)

// Client wraps REST calls against a Juvonno clinic-management deployment.
// The API is keyed by subdomain: https://<subdomain>.juvonno.com/api.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

// Config holds Juvonno connection settings.
type Config struct {
	APIKey    string
	Subdomain string
	// BaseURL overrides the subdomain-derived URL, mainly for tests.
	BaseURL string
	Timeout time.Duration
}

// NewClient constructs a Juvonno REST client.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.juvonno.com/api", strings.TrimSpace(cfg.Subdomain))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// ListBranches lists all clinic branches.
func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	var wrapped listEnvelope[Branch]
	if err := c.doJSON(ctx, http.MethodGet, "/branches", nil, &wrapped); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return wrapped.items(), nil
}

// ListServices lists the services offered at a branch.
func (c *Client) ListServices(ctx context.Context, branchID int) ([]Service, error) {
	q := url.Values{}
	q.Set("branch_id", fmt.Sprintf("%d", branchID))

	var wrapped listEnvelope[Service]
	if err := c.doJSON(ctx, http.MethodGet, "/services?"+q.Encode(), nil, &wrapped); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return wrapped.items(), nil
}

// ListEmployees lists practitioners scheduled at a branch.
func (c *Client) ListEmployees(ctx context.Context, branchID int) ([]Employee, error) {
	q := url.Values{}
	q.Set("branch_id", fmt.Sprintf("%d", branchID))

	var wrapped listEnvelope[Employee]
	if err := c.doJSON(ctx, http.MethodGet, "/employees?"+q.Encode(), nil, &wrapped); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return wrapped.items(), nil
}

// SearchCustomers finds customers by phone or email.
func (c *Client) SearchCustomers(ctx context.Context, query CustomerQuery) ([]Customer, error) {
	q := url.Values{}
	if phone := strings.TrimSpace(query.Phone); phone != "" {
		q.Set("phone", phone)
	}
	if email := strings.TrimSpace(query.Email); email != "" {
		q.Set("email", email)
	}
	if len(q) == 0 {
		return nil, fmt.Errorf("search customers: empty query")
	}

	var wrapped listEnvelope[Customer]
	if err := c.doJSON(ctx, http.MethodGet, "/customers?"+q.Encode(), nil, &wrapped); err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return wrapped.items(), nil
}

// CreateCustomer registers a new customer record.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	var out struct {
		Customer *Customer `json:"customer"`
		Data     *Customer `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/customers", req, &out); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	if out.Customer != nil {
		return out.Customer, nil
	}
	if out.Data != nil {
		return out.Data, nil
	}
	return nil, fmt.Errorf("create customer: empty response")
}

// CreateAppointment books an appointment with the resolved ids.
func (c *Client) CreateAppointment(ctx context.Context, req AppointmentRequest) (*Appointment, error) {
	var out struct {
		Appointment *Appointment `json:"appointment"`
		Data        *Appointment `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/appointments", req, &out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	if out.Appointment != nil {
		return out.Appointment, nil
	}
	if out.Data != nil {
		return out.Data, nil
	}
	return nil, fmt.Errorf("create appointment: empty response")
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("juvonno API non-2xx response", "status", resp.StatusCode, "path", path, "body", msg)
		return fmt.Errorf("juvonno API returned %d: %s", resp.StatusCode, msg)
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
