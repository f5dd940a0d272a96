package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Doctor and Patient are profile rows. UserID is the identity behind the
// profile; authorization compares acting user ids against it.
type Doctor struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Patient struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appointment is a 60-minute consultation slot between one doctor and one
// patient. EndTime is StartTime+60m at creation and is overwritten only when
// the consultation is completed.
type Appointment struct {
	ID           uuid.UUID
	DoctorID     uuid.UUID
	PatientID    uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	MeetingLink  string
	Purpose      *string
	Symptoms     *string
	ReminderSent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookingRequest is the transient input to Book. It is never persisted.
type BookingRequest struct {
	DoctorID  uuid.UUID
	StartTime time.Time
	Purpose   *string
	Symptoms  *string
}
