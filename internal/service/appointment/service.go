package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/notifier"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/messaging"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

const eventChannel = "appointments"

// Service validates and executes appointment state transitions. It is the
// only component enforcing cross-entity consistency.
type Service struct {
	repo          repository.AppointmentRepository
	slotRepo      repository.SlotRepository
	doctorRepo    repository.DoctorRepository
	patientRepo   repository.PatientRepository
	specialtyRepo repository.SpecialtyRepository
	notifier      notifier.Notifier
	broker        messaging.Broker
	metrics       *metrics.Metrics
	logger        *zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	slotRepo repository.SlotRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	specialtyRepo repository.SpecialtyRepository,
	notif notifier.Notifier,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		repo:          repo,
		slotRepo:      slotRepo,
		doctorRepo:    doctorRepo,
		patientRepo:   patientRepo,
		specialtyRepo: specialtyRepo,
		notifier:      notif,
		broker:        broker,
		metrics:       m,
		logger:        logger,
	}
}

// CreateAppointment books a slot for a patient. The final write and the
// slot-availability flip are one transaction in the repository; under
// concurrent attempts on a slot exactly one caller succeeds.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	start := time.Now()

	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("patient does not exist or is not active", err)
		}
		return nil, err
	}
	if !patient.Active {
		return nil, apperrors.Validation("patient does not exist or is not active")
	}

	doctor, err := s.doctorRepo.Get(ctx, req.DoctorID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("doctor does not exist or is not active", err)
		}
		return nil, err
	}
	if !doctor.Active {
		return nil, apperrors.Validation("doctor does not exist or is not active")
	}

	specialty, err := s.specialtyRepo.Get(ctx, req.SpecialtyID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("specialty does not exist or is not active", err)
		}
		return nil, err
	}
	if !specialty.Active {
		return nil, apperrors.Validation("specialty does not exist or is not active")
	}

	if doctor.SpecialtyID != req.SpecialtyID {
		return nil, apperrors.Validation("doctor does not belong to the selected specialty")
	}

	slot, err := s.slotRepo.Get(ctx, req.SlotID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("slot does not exist or is not available", err)
		}
		return nil, err
	}
	if !slot.Available {
		return nil, apperrors.Validation("slot does not exist or is not available")
	}
	if slot.DoctorID != req.DoctorID {
		return nil, apperrors.Validation("slot does not belong to the selected doctor")
	}

	taken, err := s.repo.ExistsActiveForSlot(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}
	if taken {
		s.countConflict("slot_taken")
		return nil, apperrors.Conflict("an appointment already exists for this slot")
	}

	sameDay, err := s.repo.ExistsActiveForPatientDoctorDate(ctx, req.PatientID, req.DoctorID, slot.Date)
	if err != nil {
		return nil, err
	}
	if sameDay {
		s.countConflict("same_day")
		return nil, apperrors.Conflict("patient already has an appointment with this doctor on the same day")
	}

	slotID := req.SlotID
	appointment := &model.Appointment{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		SpecialtyID: req.SpecialtyID,
		SlotID:      &slotID,
		DateTime:    slot.StartDateTime(),
		Reason:      req.Reason,
		Status:      model.AppointmentStatusScheduled,
	}

	if err := s.repo.Book(ctx, appointment); err != nil {
		if apperrors.IsConflict(err) {
			s.countConflict("booking_race")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCreated.Inc()
		s.metrics.BookingLatency.Observe(time.Since(start).Seconds())
	}
	s.logger.Info().
		Int64("appointment_id", appointment.ID).
		Int64("patient_id", patient.ID).
		Int64("doctor_id", doctor.ID).
		Int64("slot_id", slotID).
		Msg("appointment booked")

	s.fanout("appointment.created", appointment, func(ctx context.Context) error {
		return s.notifier.AppointmentBooked(ctx, appointment, patient, doctor)
	})
	return appointment, nil
}

// UpdateAppointment applies field changes without enforcing the transition
// guards of the dedicated cancel/complete operations; the only transition
// rule here is that entering cancelled releases the slot.
func (s *Service) UpdateAppointment(ctx context.Context, id int64, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCancelled := appointment.Status == model.AppointmentStatusCancelled

	if req.Reason != nil {
		appointment.Reason = *req.Reason
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}

	if appointment.Status == model.AppointmentStatusCancelled && !wasCancelled {
		err = s.repo.UpdateAndReleaseSlot(ctx, appointment)
		if err == nil && s.metrics != nil && appointment.SlotID != nil {
			s.metrics.SlotsReleased.Inc()
		}
	} else {
		err = s.repo.Update(ctx, appointment)
	}
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// CancelAppointment cancels a non-terminal appointment and releases its
// slot. Returns false when the appointment does not exist.
func (s *Service) CancelAppointment(ctx context.Context, id int64, reason string) (bool, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if appointment.Status == model.AppointmentStatusCancelled {
		return false, apperrors.Conflict("appointment is already cancelled")
	}
	if appointment.Status == model.AppointmentStatusCompleted {
		return false, apperrors.Conflict("cannot cancel a completed appointment")
	}

	appointment.Status = model.AppointmentStatusCancelled
	if reason != "" {
		appointment.Notes = appendNote(appointment.Notes, "Cancellation reason: "+reason)
	}

	if err := s.repo.UpdateAndReleaseSlot(ctx, appointment); err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCancelled.Inc()
		if appointment.SlotID != nil {
			s.metrics.SlotsReleased.Inc()
		}
	}
	s.logger.Info().Int64("appointment_id", id).Msg("appointment cancelled")

	s.fanout("appointment.cancelled", appointment, func(ctx context.Context) error {
		patient, err := s.patientRepo.Get(ctx, appointment.PatientID)
		if err != nil {
			return err
		}
		return s.notifier.AppointmentCancelled(ctx, appointment, patient)
	})
	return true, nil
}

// CompleteAppointment marks a non-terminal appointment completed. The slot
// stays unavailable. Returns false when the appointment does not exist.
func (s *Service) CompleteAppointment(ctx context.Context, id int64, notes string) (bool, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if appointment.Status == model.AppointmentStatusCancelled {
		return false, apperrors.Conflict("cannot complete a cancelled appointment")
	}
	if appointment.Status == model.AppointmentStatusCompleted {
		return false, apperrors.Conflict("appointment is already completed")
	}

	appointment.Status = model.AppointmentStatusCompleted
	if notes != "" {
		appointment.Notes = appendNote(appointment.Notes, notes)
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCompleted.Inc()
	}
	s.logger.Info().Int64("appointment_id", id).Msg("appointment completed")

	s.fanout("appointment.completed", appointment, nil)
	return true, nil
}

// DeleteAppointment removes a cancelled appointment. Returns false when the
// appointment does not exist.
func (s *Service) DeleteAppointment(ctx context.Context, id int64) (bool, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if appointment.Status != model.AppointmentStatusCancelled {
		return false, apperrors.Conflict("only cancelled appointments can be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Listings are most-recent-first; date-scoped and pending listings are
// next-up-first.

func (s *Service) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return s.repo.ListByDate(ctx, date)
}

func (s *Service) ListPending(ctx context.Context) ([]*model.Appointment, error) {
	return s.repo.ListPending(ctx, time.Now())
}

func (s *Service) ListToday(ctx context.Context) ([]*model.Appointment, error) {
	return s.repo.ListForDay(ctx, time.Now())
}

// fanout publishes the lifecycle event and runs the notification callback
// off the request path. Failures are logged and dropped.
func (s *Service) fanout(eventType string, appointment *model.Appointment, notify func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if s.broker != nil {
			msg := messaging.Message{Type: eventType, Payload: appointment}
			if err := s.broker.Publish(ctx, eventChannel, msg); err != nil {
				s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish event")
			}
		}
		if notify != nil {
			if err := notify(ctx); err != nil {
				s.logger.Error().Err(err).Str("event", eventType).Msg("failed to send notification")
			}
		}
	}()
}

func (s *Service) countConflict(reason string) {
	if s.metrics != nil {
		s.metrics.BookingConflicts.WithLabelValues(reason).Inc()
	}
}

func appendNote(notes, extra string) string {
	if notes == "" {
		return extra
	}
	return notes + "\n" + extra
}
