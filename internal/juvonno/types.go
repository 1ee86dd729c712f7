package juvonno

// Branch is a clinic location as returned by the Juvonno branches API.
type Branch struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Postal  string `json:"postal"`
	Phone   string `json:"phone"`
}

// Service is a bookable service offered at a branch.
type Service struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Duration int    `json:"duration"`
}

// Employee is a practitioner on a branch's schedule.
type Employee struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Title     string `json:"title"`
}

// Customer is a Juvonno patient/customer record.
type Customer struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	DOB       string `json:"dob,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// CustomerQuery narrows a customer search. Exactly one field should be set.
type CustomerQuery struct {
	Phone string
	Email string
}

// CustomerRequest creates a new customer record.
type CustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// AppointmentRequest schedules an appointment.
type AppointmentRequest struct {
	CustomerID int    `json:"customer_id"`
	BranchID   int    `json:"branch_id"`
	ServiceID  int    `json:"service_id"`
	EmployeeID int    `json:"employee_id,omitempty"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes,omitempty"`
}

// Appointment is the upstream record for a booked appointment.
type Appointment struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// listEnvelope tolerates the two envelope shapes the Juvonno API is known to
// answer with: {"list": [...]} on newer deployments, {"data": [...]} on older
// ones.
type listEnvelope[T any] struct {
	List []T `json:"list"`
	Data []T `json:"data"`
}

func (e listEnvelope[T]) items() []T {
	if len(e.List) > 0 {
		return e.List
	}
	return e.Data
}
