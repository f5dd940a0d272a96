package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medilink/telehealth-scheduling/internal/appointment"
)

// BookingService is the slice of the coordinator the HTTP layer consumes.
type BookingService interface {
	Book(ctx context.Context, req appointment.BookingRequest, actingUserID uuid.UUID) (*appointment.Appointment, error)
	Cancel(ctx context.Context, appointmentID, actingUserID uuid.UUID) (*appointment.Appointment, error)
	Complete(ctx context.Context, appointmentID, actingUserID uuid.UUID) (*appointment.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID, role appointment.Role) ([]appointment.Appointment, error)
}

func bookAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingUserID, ok := ActingUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_user", "no acting user resolved")
			return
		}

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		startTime, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start_time", "start_time must be RFC 3339")
			return
		}

		appt, err := svc.Book(r.Context(), appointment.BookingRequest{
			DoctorID:  doctorID,
			StartTime: startTime,
			Purpose:   req.Purpose,
			Symptoms:  req.Symptoms,
		}, actingUserID)
		if err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingUserID, appointmentID, ok := transitionParams(w, r)
		if !ok {
			return
		}

		appt, err := svc.Cancel(r.Context(), appointmentID, actingUserID)
		if err != nil {
			handleTransitionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func completeAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingUserID, appointmentID, ok := transitionParams(w, r)
		if !ok {
			return
		}

		appt, err := svc.Complete(r.Context(), appointmentID, actingUserID)
		if err != nil {
			handleTransitionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actingUserID, ok := ActingUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_user", "no acting user resolved")
			return
		}

		appts, err := svc.ListForUser(r.Context(), actingUserID, ActingRole(r.Context()))
		if err != nil {
			handleListError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func transitionParams(w http.ResponseWriter, r *http.Request) (actingUserID, appointmentID uuid.UUID, ok bool) {
	actingUserID, found := ActingUserID(r.Context())
	if !found {
		writeError(w, http.StatusUnauthorized, "missing_user", "no acting user resolved")
		return uuid.Nil, uuid.Nil, false
	}

	appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, uuid.Nil, false
	}

	return actingUserID, appointmentID, true
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, appointment.ErrLeadTimeTooShort):
		writeError(w, http.StatusUnprocessableEntity, "lead_time_too_short", err.Error())
	case errors.Is(err, appointment.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", err.Error())
	case errors.Is(err, appointment.ErrScheduleBusy):
		writeError(w, http.StatusConflict, "schedule_busy", "the doctor's schedule is being modified, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "not_allowed", err.Error())
	case errors.Is(err, appointment.ErrAlreadyFinalized):
		writeError(w, http.StatusConflict, "already_finalized", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
