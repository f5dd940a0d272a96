package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medilink/telehealth-scheduling/internal/notify"
	"github.com/medilink/telehealth-scheduling/internal/observability/metrics"
	redisclient "github.com/medilink/telehealth-scheduling/internal/redis"
	"github.com/medilink/telehealth-scheduling/pkg/logging"
)

var (
	ErrLeadTimeTooShort = errors.New("appointments must be booked at least one hour in advance")
	ErrSlotConflict     = errors.New("the doctor is not available in that time window")
	ErrScheduleBusy     = errors.New("the doctor's schedule is being modified, please retry")
	ErrNotAllowed       = errors.New("acting user is not permitted to perform this action")
	ErrAlreadyFinalized = errors.New("appointment is already cancelled or completed")
)

const appointmentTimeFormat = "2006-01-02 15:04:05"

// Notifier accepts a message for asynchronous delivery. It never blocks and
// never reports delivery failure to the caller.
type Notifier interface {
	Enqueue(msg notify.Message)
}

// Service coordinates booking, cancellation and completion of appointments.
// All cross-request coordination happens through the repository and the
// per-doctor lock; the service itself holds no mutable state.
type Service struct {
	repo     Repository
	locker   redisclient.Locker
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger

	now func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Book reserves a 60-minute consultation for the acting patient. The conflict
// check and the insert run inside a per-doctor lock so that two concurrent
// bookings for overlapping windows cannot both succeed.
func (s *Service) Book(ctx context.Context, req BookingRequest, actingUserID uuid.UUID) (*Appointment, error) {
	patient, err := s.repo.GetPatientByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	doctor, err := s.repo.GetDoctorByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	start := req.StartTime
	if err := ValidateLeadTime(start, s.now()); err != nil {
		s.metrics.ObserveBooking("lead_time_rejected")
		return nil, err
	}

	var created *Appointment

	err = s.locker.WithDoctorLock(ctx, doctor.ID, func(lockCtx context.Context) error {
		windowStart, windowEnd := ConflictWindow(start)
		conflicts, err := s.repo.FindConflicting(lockCtx, doctor.ID, windowStart, windowEnd)
		if err != nil {
			return fmt.Errorf("check conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return ErrSlotConflict
		}

		appt := &Appointment{
			ID:          uuid.New(),
			DoctorID:    doctor.ID,
			PatientID:   patient.ID,
			StartTime:   start,
			EndTime:     start.Add(SlotDuration),
			Status:      StatusScheduled,
			MeetingLink: newMeetingLink(),
			Purpose:     req.Purpose,
			Symptoms:    req.Symptoms,
		}

		created, err = s.repo.CreateAppointment(lockCtx, appt)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, redisclient.ErrLockNotAcquired):
			s.metrics.ObserveBooking("schedule_busy")
			return nil, ErrScheduleBusy
		case errors.Is(err, ErrSlotConflict):
			s.metrics.ObserveBooking("conflict")
			return nil, err
		default:
			s.metrics.ObserveBooking("error")
			return nil, err
		}
	}

	s.metrics.ObserveBooking("created")
	s.logger.Info("appointment booked",
		"appointment_id", created.ID,
		"doctor_id", doctor.ID,
		"start_time", created.StartTime,
	)

	s.sendBookingConfirmation(created, doctor, patient)

	return created, nil
}

// Cancel transitions a scheduled appointment to CANCELLED. Either party may
// cancel; both parties are notified.
func (s *Service) Cancel(ctx context.Context, appointmentID, actingUserID uuid.UUID) (*Appointment, error) {
	appt, doctor, patient, err := s.loadAppointmentParties(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !CanCancel(doctor, patient, actingUserID) {
		s.metrics.ObserveTransition("cancelled", "forbidden")
		return nil, ErrNotAllowed
	}

	if err := appt.MarkCancelled(); err != nil {
		s.metrics.ObserveTransition("cancelled", "already_finalized")
		return nil, err
	}

	updated, err := s.repo.CancelAppointment(ctx, appt.ID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// The row existed a moment ago, so the CAS lost a race against
			// another transition.
			s.metrics.ObserveTransition("cancelled", "already_finalized")
			return nil, ErrAlreadyFinalized
		}
		s.metrics.ObserveTransition("cancelled", "error")
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.metrics.ObserveTransition("cancelled", "ok")
	s.logger.Info("appointment cancelled",
		"appointment_id", updated.ID,
		"acting_user_id", actingUserID,
	)

	s.sendCancellationNotice(updated, doctor, patient, actingUserID)

	return updated, nil
}

// Complete transitions a scheduled appointment to COMPLETED and stamps the
// actual consultation end. Only the assigned doctor may complete.
func (s *Service) Complete(ctx context.Context, appointmentID, actingUserID uuid.UUID) (*Appointment, error) {
	appt, doctor, _, err := s.loadAppointmentParties(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !CanComplete(doctor, actingUserID) {
		s.metrics.ObserveTransition("completed", "forbidden")
		return nil, ErrNotAllowed
	}

	endedAt := s.now()
	if err := appt.MarkCompleted(endedAt); err != nil {
		s.metrics.ObserveTransition("completed", "already_finalized")
		return nil, err
	}

	updated, err := s.repo.CompleteAppointment(ctx, appt.ID, endedAt)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			s.metrics.ObserveTransition("completed", "already_finalized")
			return nil, ErrAlreadyFinalized
		}
		s.metrics.ObserveTransition("completed", "error")
		return nil, fmt.Errorf("complete appointment: %w", err)
	}

	s.metrics.ObserveTransition("completed", "ok")
	s.logger.Info("appointment completed",
		"appointment_id", updated.ID,
		"ended_at", updated.EndTime,
	)

	return updated, nil
}

// ListForUser returns the acting user's appointments newest first: by doctor
// profile when the role is doctor, by patient profile otherwise.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, role Role) ([]Appointment, error) {
	if role == RoleDoctor {
		if _, err := s.repo.GetDoctorByUserID(ctx, userID); err != nil {
			if errors.Is(err, ErrDoctorNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("load doctor: %w", err)
		}
		appts, err := s.repo.ListByDoctorUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list appointments by doctor: %w", err)
		}
		return appts, nil
	}

	if _, err := s.repo.GetPatientByUserID(ctx, userID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	appts, err := s.repo.ListByPatientUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by patient: %w", err)
	}
	return appts, nil
}

// SendDueReminders emails patients whose scheduled appointment starts within
// the window and has not been reminded yet. Intended to be called
// periodically by the reminder worker.
func (s *Service) SendDueReminders(ctx context.Context, window time.Duration) (int, error) {
	now := s.now()
	due, err := s.repo.FindDueReminders(ctx, now, now.Add(window))
	if err != nil {
		return 0, fmt.Errorf("find due reminders: %w", err)
	}

	sent := 0
	for _, appt := range due {
		doctor, err := s.repo.GetDoctorByID(ctx, appt.DoctorID)
		if err != nil {
			s.logger.Error("reminder: load doctor failed", "appointment_id", appt.ID, "error", err)
			continue
		}
		patient, err := s.repo.GetPatientByID(ctx, appt.PatientID)
		if err != nil {
			s.logger.Error("reminder: load patient failed", "appointment_id", appt.ID, "error", err)
			continue
		}

		if err := s.repo.MarkReminderSent(ctx, appt.ID); err != nil {
			s.logger.Error("reminder: mark sent failed", "appointment_id", appt.ID, "error", err)
			continue
		}

		s.notifier.Enqueue(notify.Message{
			Recipient: patient.Email,
			Subject:   "Medilink Health - Appointment Reminder",
			Template:  notify.TemplateAppointmentReminder,
			Variables: map[string]any{
				"patientName":     patient.Name,
				"doctorName":      doctor.LastName,
				"appointmentTime": appt.StartTime.Format(appointmentTimeFormat),
				"meetingLink":     appt.MeetingLink,
			},
		})
		sent++
	}

	return sent, nil
}

func (s *Service) loadAppointmentParties(ctx context.Context, appointmentID uuid.UUID) (*Appointment, *Doctor, *Patient, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, nil, nil, err
		}
		return nil, nil, nil, fmt.Errorf("load appointment: %w", err)
	}

	doctor, err := s.repo.GetDoctorByID(ctx, appt.DoctorID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load doctor: %w", err)
	}

	patient, err := s.repo.GetPatientByID(ctx, appt.PatientID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load patient: %w", err)
	}

	return appt, doctor, patient, nil
}

func (s *Service) sendBookingConfirmation(appt *Appointment, doctor *Doctor, patient *Patient) {
	formattedTime := appt.StartTime.Format(appointmentTimeFormat)

	s.notifier.Enqueue(notify.Message{
		Recipient: patient.Email,
		Subject:   "Medilink Health - Appointment Confirmed",
		Template:  notify.TemplatePatientAppointment,
		Variables: map[string]any{
			"patientName":           patient.Name,
			"doctorName":            doctor.LastName,
			"appointmentTime":       formattedTime,
			"isVirtual":             true,
			"meetingLink":           appt.MeetingLink,
			"purposeOfConsultation": derefOrEmpty(appt.Purpose),
		},
	})

	s.notifier.Enqueue(notify.Message{
		Recipient: doctor.Email,
		Subject:   "Medilink Health - New Appointment",
		Template:  notify.TemplateDoctorAppointment,
		Variables: map[string]any{
			"doctorName":            doctor.LastName,
			"patientFullName":       patient.Name,
			"appointmentTime":       formattedTime,
			"isVirtual":             true,
			"meetingLink":           appt.MeetingLink,
			"initialSymptoms":       derefOrEmpty(appt.Symptoms),
			"purposeOfConsultation": derefOrEmpty(appt.Purpose),
		},
	})
}

// Both parties receive the cancellation notice, whoever triggered it.
func (s *Service) sendCancellationNotice(appt *Appointment, doctor *Doctor, patient *Patient, actingUserID uuid.UUID) {
	cancelingPartyName := patient.Name
	if doctor.UserID == actingUserID {
		cancelingPartyName = "Dr. " + doctor.LastName
	}

	baseVars := map[string]any{
		"cancelingPartyName": cancelingPartyName,
		"appointmentTime":    appt.StartTime.Format(appointmentTimeFormat),
		"doctorName":         doctor.LastName,
		"patientFullName":    patient.Name,
	}

	doctorVars := copyVars(baseVars)
	doctorVars["recipientName"] = doctor.FirstName + " " + doctor.LastName

	s.notifier.Enqueue(notify.Message{
		Recipient: doctor.Email,
		Subject:   "Medilink Health - Appointment Cancelled",
		Template:  notify.TemplateAppointmentCancellation,
		Variables: doctorVars,
	})

	patientVars := copyVars(baseVars)
	patientVars["recipientName"] = patient.Name

	s.notifier.Enqueue(notify.Message{
		Recipient: patient.Email,
		Subject:   fmt.Sprintf("Medilink Health - Appointment Cancelled (ID: %s)", appt.ID),
		Template:  notify.TemplateAppointmentCancellation,
		Variables: patientVars,
	})
}

// newMeetingLink allocates a meeting room name from a random identifier.
// Collision-resistant, not secret.
func newMeetingLink() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "https://meet.jit.si/health-" + raw[:10]
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyVars(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
