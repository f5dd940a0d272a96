package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/medilink/telehealth-scheduling/internal/appointment"
)

type BookAppointmentRequest struct {
	DoctorID  string  `json:"doctor_id"`
	StartTime string  `json:"start_time"` // RFC 3339
	Purpose   *string `json:"purpose,omitempty"`
	Symptoms  *string `json:"symptoms,omitempty"`
}

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	MeetingLink string    `json:"meeting_link"`
	Purpose     *string   `json:"purpose,omitempty"`
	Symptoms    *string   `json:"symptoms,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		PatientID:   a.PatientID,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      string(a.Status),
		MeetingLink: a.MeetingLink,
		Purpose:     a.Purpose,
		Symptoms:    a.Symptoms,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
