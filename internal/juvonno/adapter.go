package juvonno

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/medrehab/clinic-concierge/internal/booking"
	"github.com/medrehab/clinic-concierge/internal/locations"
)

// DirectoryAdapter exposes the Juvonno client through the interfaces the
// booking orchestrator and the location refresher consume. Juvonno uses
// numeric identifiers; the rest of the service passes strings, so the
// adapter owns the conversion.
type DirectoryAdapter struct {
	client *Client
}

// NewDirectoryAdapter wraps a Juvonno client.
func NewDirectoryAdapter(client *Client) *DirectoryAdapter {
	return &DirectoryAdapter{client: client}
}

var _ booking.DirectoryClient = (*DirectoryAdapter)(nil)
var _ locations.Source = (*DirectoryAdapter)(nil)

func (a *DirectoryAdapter) ListBranches(ctx context.Context) ([]booking.Branch, error) {
	branches, err := a.client.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]booking.Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, booking.Branch{
			ID:      strconv.Itoa(b.ID),
			Name:    b.Name,
			Address: b.Address,
			City:    b.City,
			Postal:  b.Postal,
			Phone:   b.Phone,
		})
	}
	return out, nil
}

func (a *DirectoryAdapter) ListServices(ctx context.Context, branchID string) ([]booking.Service, error) {
	id, err := parseID("branch", branchID)
	if err != nil {
		return nil, err
	}
	services, err := a.client.ListServices(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]booking.Service, 0, len(services))
	for _, s := range services {
		out = append(out, booking.Service{
			ID:       strconv.Itoa(s.ID),
			Name:     s.Name,
			Category: s.Category,
		})
	}
	return out, nil
}

func (a *DirectoryAdapter) ListPractitioners(ctx context.Context, branchID string) ([]booking.Practitioner, error) {
	id, err := parseID("branch", branchID)
	if err != nil {
		return nil, err
	}
	employees, err := a.client.ListEmployees(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]booking.Practitioner, 0, len(employees))
	for _, e := range employees {
		out = append(out, booking.Practitioner{
			ID:    strconv.Itoa(e.ID),
			Name:  strings.TrimSpace(e.FirstName + " " + e.LastName),
			Title: e.Title,
		})
	}
	return out, nil
}

func (a *DirectoryAdapter) FindCustomer(ctx context.Context, query booking.CustomerQuery) (*booking.Customer, error) {
	customers, err := a.client.SearchCustomers(ctx, CustomerQuery{Phone: query.Phone, Email: query.Email})
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, nil
	}
	c := customers[0]
	return &booking.Customer{
		ID:        strconv.Itoa(c.ID),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}, nil
}

func (a *DirectoryAdapter) CreateCustomer(ctx context.Context, customer booking.NewCustomer) (*booking.Customer, error) {
	created, err := a.client.CreateCustomer(ctx, CustomerRequest{
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		Phone:     customer.Phone,
		DOB:       customer.DOB,
		Gender:    customer.Gender,
	})
	if err != nil {
		return nil, err
	}
	return &booking.Customer{
		ID:        strconv.Itoa(created.ID),
		FirstName: created.FirstName,
		LastName:  created.LastName,
		Email:     created.Email,
		Phone:     created.Phone,
	}, nil
}

func (a *DirectoryAdapter) CreateAppointment(ctx context.Context, req booking.AppointmentRequest) (*booking.Appointment, error) {
	customerID, err := parseID("customer", req.CustomerID)
	if err != nil {
		// A synthesized customer id has no upstream record to book against.
		return nil, err
	}
	branchID, err := parseID("branch", req.BranchID)
	if err != nil {
		return nil, err
	}
	serviceID, err := parseID("service", req.ServiceID)
	if err != nil {
		return nil, err
	}
	employeeID := 0
	if req.PractitionerID != "" {
		if employeeID, err = parseID("employee", req.PractitionerID); err != nil {
			return nil, err
		}
	}

	created, err := a.client.CreateAppointment(ctx, AppointmentRequest{
		CustomerID: customerID,
		BranchID:   branchID,
		ServiceID:  serviceID,
		EmployeeID: employeeID,
		Date:       req.Date,
		Time:       req.Time,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &booking.Appointment{
		ID:     strconv.Itoa(created.ID),
		Status: created.Status,
	}, nil
}

// FetchLocations maps the branch list into clinic directory records for the
// location matcher, attaching each branch's service names when the per-branch
// lookup succeeds.
func (a *DirectoryAdapter) FetchLocations(ctx context.Context) ([]locations.ClinicLocation, error) {
	branches, err := a.client.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]locations.ClinicLocation, 0, len(branches))
	for _, b := range branches {
		loc := locations.ClinicLocation{
			ID:         strconv.Itoa(b.ID),
			Name:       b.Name,
			Address:    b.Address,
			City:       b.City,
			PostalCode: b.Postal,
			Phone:      b.Phone,
		}
		if services, err := a.client.ListServices(ctx, b.ID); err == nil {
			names := make([]string, 0, len(services))
			for _, s := range services {
				names = append(names, s.Name)
			}
			loc.Services = names
		}
		out = append(out, loc)
	}
	return out, nil
}

func parseID(kind, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("juvonno: %s id %q is not an upstream identifier", kind, raw)
	}
	return id, nil
}
