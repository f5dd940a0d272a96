package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, doctor_id, patient_id, start_time, end_time, status,
	meeting_link, purpose, symptoms, reminder_sent, created_at, updated_at`

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var specialty *string

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.FirstName,
		&d.LastName,
		&d.Email,
		&specialty,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	d.Specialty = specialty
	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var purpose, symptoms *string

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.MeetingLink,
		&purpose,
		&symptoms,
		&a.ReminderSent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Purpose = purpose
	a.Symptoms = symptoms
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Interface methods

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, first_name, last_name, email, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, first_name, last_name, email, specialty, created_at, updated_at
		FROM doctors
		WHERE user_id = $1
	`, userID)
	return scanDoctor(row)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, email, created_at, updated_at
		FROM patients
		WHERE user_id = $1
	`, userID)
	return scanPatient(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) FindConflicting(ctx context.Context, doctorID uuid.UUID, windowStart, windowEnd time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND status = 'SCHEDULED'
		  AND start_time < $3
		  AND end_time > $2
	`, doctorID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, doctor_id, patient_id, start_time, end_time, status,
			 meeting_link, purpose, symptoms, reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, now(), now())
		RETURNING `+appointmentColumns+`
	`, a.ID, a.DoctorID, a.PatientID, a.StartTime, a.EndTime, a.Status,
		a.MeetingLink, a.Purpose, a.Symptoms)

	return scanAppointment(row)
}

func (r *PgRepository) CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'CANCELLED',
		    updated_at = now()
		WHERE id = $1
		  AND status = 'SCHEDULED'
		RETURNING `+appointmentColumns+`
	`, id)

	return scanAppointment(row)
}

func (r *PgRepository) CompleteAppointment(ctx context.Context, id uuid.UUID, endedAt time.Time) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'COMPLETED',
		    end_time = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'SCHEDULED'
		RETURNING `+appointmentColumns+`
	`, id, endedAt)

	return scanAppointment(row)
}

func (r *PgRepository) ListByDoctorUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+qualifiedAppointmentColumns+`
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		WHERE d.user_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByPatientUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+qualifiedAppointmentColumns+`
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE p.user_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

const qualifiedAppointmentColumns = `a.id, a.doctor_id, a.patient_id, a.start_time, a.end_time, a.status,
	a.meeting_link, a.purpose, a.symptoms, a.reminder_sent, a.created_at, a.updated_at`

func (r *PgRepository) FindDueReminders(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status = 'SCHEDULED'
		  AND reminder_sent = false
		  AND start_time >= $1
		  AND start_time < $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET reminder_sent = true,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
