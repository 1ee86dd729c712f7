package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medrehab/clinic-concierge/internal/booking"
	"github.com/medrehab/clinic-concierge/internal/locations"
	"github.com/medrehab/clinic-concierge/internal/observability/metrics"
	"github.com/medrehab/clinic-concierge/pkg/logging"
)

// ToolsHandler serves the voice assistant's function endpoints: location
// lookup and appointment booking. Responses always carry a message the
// assistant can speak verbatim.
type ToolsHandler struct {
	snapshot     *locations.Snapshot
	orchestrator *booking.Orchestrator
	locMetrics   *metrics.LocationMetrics
	logger       *logging.Logger
}

func NewToolsHandler(snapshot *locations.Snapshot, orchestrator *booking.Orchestrator, locMetrics *metrics.LocationMetrics, logger *logging.Logger) *ToolsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ToolsHandler{
		snapshot:     snapshot,
		orchestrator: orchestrator,
		locMetrics:   locMetrics,
		logger:       logger,
	}
}

// FindLocationRequest carries the caller's spoken location, a postal code or
// a city name.
type FindLocationRequest struct {
	PostalCode string `json:"postal_code"`
}

// LocationResponse is the function-call response shape: a speakable message
// plus the structured matches.
type LocationResponse struct {
	Success        bool                       `json:"success"`
	Message        string                     `json:"message"`
	MatchedExactly bool                       `json:"matched_exactly,omitempty"`
	Locations      []locations.ClinicLocation `json:"locations,omitempty"`
}

// FindLocation handles POST /find-location.
func (h *ToolsHandler) FindLocation(w http.ResponseWriter, r *http.Request) {
	var req FindLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.matchLocation(req.PostalCode)
	if err != nil {
		jsonError(w, "Please provide a postal code or city name.", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, LocationResponse{
		Success:        true,
		Message:        result.Summary,
		MatchedExactly: result.MatchedExactly,
		Locations:      result.Locations,
	})
}

// GetLocations handles POST /get-locations.
func (h *ToolsHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	directory := h.snapshot.Current()
	writeJSON(w, http.StatusOK, LocationResponse{
		Success:   true,
		Message:   locations.DirectorySummary(directory),
		Locations: directory,
	})
}

// BookingResponse wraps the resolved booking for the assistant.
type BookingResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Booking *booking.Resolved `json:"booking,omitempty"`
}

// BookAppointment handles POST /book-appointment.
func (h *ToolsHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req booking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	resolved, err := h.orchestrator.Book(r.Context(), req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BookingResponse{
		Success: true,
		Message: resolved.Summary,
		Booking: &resolved,
	})
}

func (h *ToolsHandler) writeBookingError(w http.ResponseWriter, err error) {
	var serviceErr *booking.ServiceNotFoundError
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		jsonError(w, "I need the clinic location, the date and time, and the patient's first name to book.", http.StatusBadRequest)
	case errors.Is(err, booking.ErrBranchNotFound):
		jsonError(w, "I couldn't find that clinic location. Could you tell me which MedRehab Group clinic you'd like to visit?", http.StatusUnprocessableEntity)
	case errors.As(err, &serviceErr):
		jsonError(w, "That clinic doesn't have any bookable services right now. Please call the clinic directly.", http.StatusUnprocessableEntity)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		jsonError(w, "The request was cancelled.", http.StatusServiceUnavailable)
	default:
		h.logger.Error("booking failed", "error", err)
		jsonError(w, "Something went wrong while booking. Please call the clinic directly.", http.StatusInternalServerError)
	}
}

func (h *ToolsHandler) matchLocation(input string) (locations.MatchResult, error) {
	result, err := locations.Match(input, h.snapshot.Current())
	if err != nil {
		return locations.MatchResult{}, err
	}
	h.locMetrics.ObserveMatch(string(result.Query.Kind), result.MatchedExactly)
	return result, nil
}
