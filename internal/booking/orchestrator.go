package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/medrehab/clinic-concierge/internal/observability/metrics"
	"github.com/medrehab/clinic-concierge/pkg/logging"
)

var bookingTracer = otel.Tracer("concierge/booking")

const defaultCallTimeout = 10 * time.Second

// Orchestrator resolves booking requests against the clinic directory and
// sends confirmations. Directory outages degrade to synthesized identifiers
// instead of failed bookings.
type Orchestrator struct {
	directory     DirectoryClient
	confirmations ConfirmationSender
	callTimeout   time.Duration
	logger        *logging.Logger
	metrics       *metrics.BookingMetrics
	now           func() time.Time
}

// OrchestratorConfig configures an Orchestrator. Confirmations and Metrics
// may be nil; CallTimeout defaults to 10s.
type OrchestratorConfig struct {
	Directory     DirectoryClient
	Confirmations ConfirmationSender
	CallTimeout   time.Duration
	Logger        *logging.Logger
	Metrics       *metrics.BookingMetrics
}

// NewOrchestrator constructs a booking orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Directory == nil {
		return nil, errors.New("booking: orchestrator requires a directory client")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Orchestrator{
		directory:     cfg.Directory,
		confirmations: cfg.Confirmations,
		callTimeout:   timeout,
		logger:        logger,
		metrics:       cfg.Metrics,
		now:           time.Now,
	}, nil
}

type resolvedCustomer struct {
	id        string
	email     string
	firstName string
	lastName  string
	synthetic bool
}

type branchListResult struct {
	branches []Branch
	err      error
}

// Book runs the booking flow: resolve the customer, the branch, the service,
// and optionally a practitioner, then create the appointment and send a
// confirmation. Customer resolution and the branch list fetch run
// concurrently; appointment creation waits on both. Only ErrInvalidRequest,
// ErrBranchNotFound, ServiceNotFoundError, and caller cancellation are
// returned as errors.
func (o *Orchestrator) Book(ctx context.Context, req Request) (Resolved, error) {
	if err := validateRequest(req); err != nil {
		return Resolved{}, err
	}

	ctx, span := bookingTracer.Start(ctx, "booking.Book")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.branch", req.BranchName),
		attribute.String("booking.service", req.ServiceName),
	)

	branchCh := make(chan branchListResult, 1)
	go func() {
		branches, err := o.listBranches(ctx)
		branchCh <- branchListResult{branches: branches, err: err}
	}()

	customer := o.resolveCustomer(ctx, req)

	var branchResult branchListResult
	select {
	case branchResult = <-branchCh:
	case <-ctx.Done():
		return Resolved{}, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}

	branch, err := selectBranch(branchResult, req.BranchName)
	if err != nil {
		span.RecordError(err)
		o.observeOutcome("branch_not_found", customer.synthetic, false)
		return Resolved{}, err
	}

	service, err := o.resolveService(ctx, branch, req)
	if err != nil {
		span.RecordError(err)
		o.observeOutcome("service_not_found", customer.synthetic, false)
		return Resolved{}, err
	}

	practitioner := o.resolvePractitioner(ctx, branch.ID, req.PractitionerName)

	appointment, appointmentSynthetic := o.createAppointment(ctx, AppointmentRequest{
		CustomerID:     customer.id,
		BranchID:       branch.ID,
		ServiceID:      service.ID,
		PractitionerID: practitioner.ID,
		Date:           req.Date,
		Time:           req.Time,
	})
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}

	resolved := Resolved{
		CustomerID:           customer.id,
		BranchID:             branch.ID,
		BranchName:           branch.Name,
		ServiceID:            service.ID,
		ServiceName:          service.Name,
		PractitionerID:       practitioner.ID,
		PractitionerName:     practitioner.Name,
		AppointmentID:        appointment.ID,
		Status:               appointment.Status,
		CustomerSynthetic:    customer.synthetic,
		AppointmentSynthetic: appointmentSynthetic,
	}
	resolved.Summary = renderSummary(resolved, req)

	o.sendConfirmation(ctx, customer, resolved, req)
	o.observeOutcome("confirmed", customer.synthetic, appointmentSynthetic)

	o.logger.Info("booking completed",
		"branch", branch.Name,
		"service", service.Name,
		"appointment_id", appointment.ID,
		"customer_synthetic", customer.synthetic,
		"appointment_synthetic", appointmentSynthetic,
	)
	return resolved, nil
}

func validateRequest(req Request) error {
	switch {
	case strings.TrimSpace(req.BranchName) == "":
		return fmt.Errorf("%w: branch name is required", ErrInvalidRequest)
	case strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "":
		return fmt.Errorf("%w: date and time are required", ErrInvalidRequest)
	case strings.TrimSpace(req.Customer.FirstName) == "":
		return fmt.Errorf("%w: customer first name is required", ErrInvalidRequest)
	}
	return nil
}

// resolveCustomer tries phone lookup, then email lookup, then creation, and
// finally synthesizes a local id. It never fails the booking.
func (o *Orchestrator) resolveCustomer(ctx context.Context, req Request) resolvedCustomer {
	info := req.Customer

	if info.Phone != "" {
		if found := o.findCustomer(ctx, CustomerQuery{Phone: info.Phone}); found != nil {
			return adoptCustomer(found, info)
		}
	}
	if info.Email != "" {
		if found := o.findCustomer(ctx, CustomerQuery{Email: info.Email}); found != nil {
			return adoptCustomer(found, info)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	start := o.now()
	created, err := o.directory.CreateCustomer(callCtx, NewCustomer{
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Email:     info.Email,
		Phone:     info.Phone,
		DOB:       info.DOB,
		Gender:    info.Gender,
	})
	o.observeCall("create_customer", err, start)
	if err == nil && created != nil && created.ID != "" {
		return adoptCustomer(created, info)
	}
	if err != nil {
		o.logger.Warn("customer creation failed, synthesizing local id", "error", err)
	}

	return resolvedCustomer{
		id:        synthesizeCustomerID(info.FirstName, info.LastName, o.now()),
		email:     info.Email,
		firstName: info.FirstName,
		lastName:  info.LastName,
		synthetic: true,
	}
}

func (o *Orchestrator) findCustomer(ctx context.Context, query CustomerQuery) *Customer {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	start := o.now()
	found, err := o.directory.FindCustomer(callCtx, query)
	o.observeCall("find_customer", err, start)
	if err != nil {
		o.logger.Warn("customer lookup failed", "error", err)
		return nil
	}
	if found == nil || found.ID == "" {
		return nil
	}
	return found
}

// adoptCustomer fills missing caller fields from the directory record.
func adoptCustomer(record *Customer, info CustomerInfo) resolvedCustomer {
	c := resolvedCustomer{
		id:        record.ID,
		email:     info.Email,
		firstName: info.FirstName,
		lastName:  info.LastName,
	}
	if c.email == "" {
		c.email = record.Email
	}
	if c.firstName == "" {
		c.firstName = record.FirstName
	}
	if c.lastName == "" {
		c.lastName = record.LastName
	}
	return c
}

func (o *Orchestrator) listBranches(ctx context.Context) ([]Branch, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	start := o.now()
	branches, err := o.directory.ListBranches(callCtx)
	o.observeCall("list_branches", err, start)
	return branches, err
}

func selectBranch(result branchListResult, requested string) (Branch, error) {
	if result.err != nil {
		return Branch{}, fmt.Errorf("%w: %q (directory unavailable: %v)",
			ErrBranchNotFound, requested, result.err)
	}
	want := strings.ToLower(strings.TrimSpace(requested))
	for _, b := range result.branches {
		name := strings.ToLower(b.Name)
		if strings.Contains(name, want) || strings.Contains(want, name) {
			return b, nil
		}
	}
	return Branch{}, fmt.Errorf("%w: %q", ErrBranchNotFound, requested)
}

// resolveService picks a service by exact name, then mutual substring, then
// category keyword, then the first offered. Only an empty service list is an
// error.
func (o *Orchestrator) resolveService(ctx context.Context, branch Branch, req Request) (Service, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	start := o.now()
	services, err := o.directory.ListServices(callCtx, branch.ID)
	o.observeCall("list_services", err, start)
	if err != nil {
		o.logger.Warn("service list fetch failed", "branch", branch.Name, "error", err)
		services = nil
	}
	if len(services) == 0 {
		return Service{}, &ServiceNotFoundError{Branch: branch.Name, Requested: req.ServiceName}
	}

	wantName := strings.ToLower(strings.TrimSpace(req.ServiceName))
	wantCategory := strings.ToLower(strings.TrimSpace(req.ServiceCategory))

	if wantName != "" {
		for _, s := range services {
			if strings.ToLower(s.Name) == wantName {
				return s, nil
			}
		}
		for _, s := range services {
			name := strings.ToLower(s.Name)
			if strings.Contains(name, wantName) || strings.Contains(wantName, name) {
				return s, nil
			}
		}
	}
	if wantCategory != "" {
		for _, s := range services {
			if categoryMatches(wantCategory, s) {
				return s, nil
			}
		}
	}
	return services[0], nil
}

func categoryMatches(wantCategory string, s Service) bool {
	name := strings.ToLower(s.Name)
	category := strings.ToLower(s.Category)
	if category != "" && (strings.Contains(category, wantCategory) || strings.Contains(wantCategory, category)) {
		return true
	}
	for _, keyword := range strings.Fields(wantCategory) {
		if len(keyword) >= 4 && strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// resolvePractitioner is optional; absence or lookup failure leaves the
// appointment unassigned.
func (o *Orchestrator) resolvePractitioner(ctx context.Context, branchID, requested string) Practitioner {
	want := strings.ToLower(strings.TrimSpace(requested))
	if want == "" {
		return Practitioner{}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	start := o.now()
	practitioners, err := o.directory.ListPractitioners(callCtx, branchID)
	o.observeCall("list_practitioners", err, start)
	if err != nil {
		o.logger.Warn("practitioner lookup failed", "error", err)
		return Practitioner{}
	}
	for _, p := range practitioners {
		name := strings.ToLower(p.Name)
		if strings.Contains(name, want) || strings.Contains(want, name) {
			return p
		}
	}
	return Practitioner{}
}

func (o *Orchestrator) createAppointment(ctx context.Context, req AppointmentRequest) (Appointment, bool) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	start := o.now()
	created, err := o.directory.CreateAppointment(callCtx, req)
	o.observeCall("create_appointment", err, start)
	if err == nil && created != nil && created.ID != "" {
		appointment := *created
		if appointment.Status == "" {
			appointment.Status = "confirmed"
		}
		return appointment, false
	}
	if err != nil {
		o.logger.Warn("appointment creation failed, synthesizing local id", "error", err)
	}
	return Appointment{
		ID:     synthesizeAppointmentID(req.CustomerID, o.now()),
		Status: "confirmed",
	}, true
}

func (o *Orchestrator) sendConfirmation(ctx context.Context, customer resolvedCustomer, resolved Resolved, req Request) {
	if o.confirmations == nil || customer.email == "" {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	subject := fmt.Sprintf("Appointment Confirmation - %s", resolved.BranchName)
	body := fmt.Sprintf("Hi %s,\n\n%s\n\nYour confirmation number is %s.\n\nMedRehab Group",
		customer.firstName, resolved.Summary, resolved.AppointmentID)
	if err := o.confirmations.SendConfirmation(callCtx, customer.email, subject, body); err != nil {
		o.logger.Warn("confirmation email failed", "to", customer.email, "error", err)
	}
}

func renderSummary(resolved Resolved, req Request) string {
	summary := fmt.Sprintf("You're booked for %s at %s on %s at %s.",
		resolved.ServiceName, resolved.BranchName, req.Date, req.Time)
	if resolved.PractitionerName != "" {
		summary = fmt.Sprintf("You're booked for %s with %s at %s on %s at %s.",
			resolved.ServiceName, resolved.PractitionerName, resolved.BranchName, req.Date, req.Time)
	}
	return summary
}

func synthesizeCustomerID(firstName, lastName string, at time.Time) string {
	slug := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.ReplaceAll(s, " ", "-")
	}
	return fmt.Sprintf("local-%s-%s-%d", slug(firstName), slug(lastName), at.Unix())
}

func synthesizeAppointmentID(customerID string, at time.Time) string {
	return fmt.Sprintf("apt-%d-%s", at.Unix(), customerID)
}

func (o *Orchestrator) observeCall(operation string, err error, start time.Time) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.metrics.ObserveUpstreamCall(operation, status, o.now().Sub(start).Seconds())
}

func (o *Orchestrator) observeOutcome(status string, customerSynthetic, appointmentSynthetic bool) {
	o.metrics.ObserveBooking(status, customerSynthetic, appointmentSynthetic)
}
