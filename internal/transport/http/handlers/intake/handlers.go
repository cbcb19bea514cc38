package intakehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"intakebridge/internal/domain/intake"
	"intakebridge/internal/domain/shifts"
	"intakebridge/internal/transport/http/api"
	"intakebridge/internal/transport/http/middleware"
	"intakebridge/internal/transport/http/shared"
)

type Handler struct {
	Intake *intake.Service
	Shifts *shifts.Service
}

func NewHandler(intakeService *intake.Service, shiftService *shifts.Service) *Handler {
	return &Handler{Intake: intakeService, Shifts: shiftService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/employee", h.handleAuthEmployee)
	r.Post("/winteam/shifts", h.handleShifts)
	r.Post("/monday/write", h.handleMondayWrite)
	r.Route("/zva", func(r chi.Router) {
		r.Post("/shift-write-by-cell", h.handleShiftWriteByCell)
		r.Post("/shift-write", h.handleShiftWrite)
		r.Post("/absence", h.handleAbsence)
		r.Post("/resignation", h.handleResignation)
	})
}

type shiftsPayload struct {
	EmployeeNumber string `json:"employeeNumber"`
	DateFrom       string `json:"dateFrom"`
	DateTo         string `json:"dateTo"`
	PageStart      int    `json:"pageStart"`
}

func (h *Handler) handleAuthEmployee(w http.ResponseWriter, r *http.Request) {
	var payload intake.AuthRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	employee, err := h.Intake.Authenticate(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, "Successful employee lookup.", map[string]any{"employee": employee}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleShifts(w http.ResponseWriter, r *http.Request) {
	var payload shiftsPayload
	if err := shared.Decode(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	listing, err := h.Shifts.List(r.Context(), shifts.ListRequest{
		EmployeeNumber: payload.EmployeeNumber,
		DateFrom:       payload.DateFrom,
		DateTo:         payload.DateTo,
		PageStart:      payload.PageStart,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, "Shifts lookup completed.", listing, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMondayWrite(w http.ResponseWriter, r *http.Request) {
	var payload intake.BoardWriteRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	result, err := h.Intake.WriteBoard(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result.Message(), result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleShiftWriteByCell(w http.ResponseWriter, r *http.Request) {
	var payload intake.ShiftRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.writeOutcome(w, r, func() (*intake.Outcome, error) {
		return h.Intake.ShiftCallOff(r.Context(), payload)
	})
}

func (h *Handler) handleShiftWrite(w http.ResponseWriter, r *http.Request) {
	var payload intake.ShiftRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.writeOutcome(w, r, func() (*intake.Outcome, error) {
		return h.Intake.ShiftCallOffBySelection(r.Context(), payload)
	})
}

func (h *Handler) handleAbsence(w http.ResponseWriter, r *http.Request) {
	var payload intake.AbsenceRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.writeOutcome(w, r, func() (*intake.Outcome, error) {
		return h.Intake.Absence(r.Context(), payload)
	})
}

func (h *Handler) handleResignation(w http.ResponseWriter, r *http.Request) {
	var payload intake.ResignationRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.writeOutcome(w, r, func() (*intake.Outcome, error) {
		return h.Intake.Resignation(r.Context(), payload)
	})
}

func (h *Handler) writeOutcome(w http.ResponseWriter, r *http.Request, run func() (*intake.Outcome, error)) {
	outcome, err := run()
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, outcome.Message(), outcome, middleware.GetRequestID(r.Context()))
}
