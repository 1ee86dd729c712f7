// Package booking turns a caller's appointment request into a confirmed
// booking against the clinic directory, synthesizing local identifiers when
// the upstream system cannot be reached. The caller always gets a renderable
// confirmation; only an unknown branch or an empty service list abort the
// flow.
package booking

import "context"

// Branch is a physical clinic location as the directory reports it.
type Branch struct {
	ID      string
	Name    string
	Address string
	City    string
	Postal  string
	Phone   string
}

// Service is a bookable treatment offered at a branch.
type Service struct {
	ID       string
	Name     string
	Category string
}

// Practitioner is a staff member who can be assigned to an appointment.
type Practitioner struct {
	ID    string
	Name  string
	Title string
}

// Customer is a patient record in the directory.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CustomerQuery searches for an existing customer. Exactly one field is set
// per lookup.
type CustomerQuery struct {
	Phone string
	Email string
}

// NewCustomer carries the fields for creating a patient record.
type NewCustomer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	DOB       string
	Gender    string
}

// AppointmentRequest carries the resolved identifiers for creating an
// appointment upstream.
type AppointmentRequest struct {
	CustomerID     string
	BranchID       string
	ServiceID      string
	PractitionerID string
	Date           string
	Time           string
	Notes          string
}

// Appointment is the upstream system's record of a created appointment.
type Appointment struct {
	ID     string
	Status string
}

// DirectoryClient is everything the orchestrator needs from the clinic
// system of record. FindCustomer returns (nil, nil) when no record matches.
type DirectoryClient interface {
	ListBranches(ctx context.Context) ([]Branch, error)
	ListServices(ctx context.Context, branchID string) ([]Service, error)
	ListPractitioners(ctx context.Context, branchID string) ([]Practitioner, error)
	FindCustomer(ctx context.Context, query CustomerQuery) (*Customer, error)
	CreateCustomer(ctx context.Context, customer NewCustomer) (*Customer, error)
	CreateAppointment(ctx context.Context, req AppointmentRequest) (*Appointment, error)
}

// ConfirmationSender delivers the booking confirmation to the patient.
// Failures are logged by the orchestrator and never fail the booking.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, to, subject, body string) error
}

// CustomerInfo is the patient as the caller described them. Email, phone,
// DOB, and gender are optional.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// Request is a booking intent from the voice assistant. Date and time are
// relayed as spoken; only presence is validated.
type Request struct {
	BranchName       string       `json:"branch_name"`
	ServiceCategory  string       `json:"service_category,omitempty"`
	ServiceName      string       `json:"service_name"`
	PractitionerName string       `json:"practitioner_name,omitempty"`
	Date             string       `json:"date"`
	Time             string       `json:"time"`
	Customer         CustomerInfo `json:"customer"`
}

// Resolved is the outcome of a booking. Synthetic flags record that a local
// identifier stands in for an upstream one; the rendered summary does not
// distinguish the two.
type Resolved struct {
	CustomerID           string `json:"customer_id"`
	BranchID             string `json:"branch_id"`
	BranchName           string `json:"branch_name"`
	ServiceID            string `json:"service_id"`
	ServiceName          string `json:"service_name"`
	PractitionerID       string `json:"practitioner_id,omitempty"`
	PractitionerName     string `json:"practitioner_name,omitempty"`
	AppointmentID        string `json:"appointment_id"`
	Status               string `json:"status"`
	CustomerSynthetic    bool   `json:"-"`
	AppointmentSynthetic bool   `json:"-"`
	Summary              string `json:"summary"`
}
