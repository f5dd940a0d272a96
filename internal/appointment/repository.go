package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// FindConflicting returns the doctor's SCHEDULED appointments whose
	// [start, end) intersects [windowStart, windowEnd). Callers only care
	// whether the result is empty.
	FindConflicting(ctx context.Context, doctorID uuid.UUID, windowStart, windowEnd time.Time) ([]Appointment, error)

	CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)

	// CancelAppointment and CompleteAppointment update status with a
	// compare-and-swap on SCHEDULED. A zero-row update surfaces as
	// ErrAppointmentNotFound; the service distinguishes a missing row from a
	// lost race by the load it already performed.
	CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID, endedAt time.Time) (*Appointment, error)

	ListByDoctorUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error)
	ListByPatientUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error)

	// Reminder worker
	FindDueReminders(ctx context.Context, from, to time.Time) ([]Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}
