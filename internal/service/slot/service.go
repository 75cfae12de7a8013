package slot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

// Service owns creation and availability-state of slots.
type Service struct {
	repo       repository.SlotRepository
	doctorRepo repository.DoctorRepository
	metrics    *metrics.Metrics
	logger     *zerolog.Logger
}

func NewService(repo repository.SlotRepository, doctorRepo repository.DoctorRepository, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
		metrics:    m,
		logger:     logger,
	}
}

// CreateSlot validates and stores a new available slot. The repository
// re-checks overlap under a doctor-row lock, so a concurrent create for the
// same interval cannot slip past the check here.
func (s *Service) CreateSlot(ctx context.Context, doctorID int64, date time.Time, start, end string) (*model.Slot, error) {
	if start >= end {
		return nil, apperrors.Validation("start time must be before end time")
	}
	if beforeToday(date) {
		return nil, apperrors.Validation("cannot create slots for past dates")
	}

	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewConflict("doctor does not exist or is not active", err)
		}
		return nil, err
	}
	if !doctor.Active {
		return nil, apperrors.Conflict("doctor does not exist or is not active")
	}

	overlap, err := s.repo.HasOverlap(ctx, doctorID, date, start, end, nil)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperrors.Conflict("a slot already overlaps the given interval")
	}

	slot := &model.Slot{
		DoctorID:  doctorID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SlotsCreated.Inc()
	}
	s.logger.Debug().Int64("slot_id", slot.ID).Int64("doctor_id", doctorID).Msg("slot created")
	return slot, nil
}

// CreateRecurringSlots creates a slot for every date in [dateStart, dateEnd]
// whose weekday is in weekdays. Conflicting dates are skipped; partial
// success is expected.
func (s *Service) CreateRecurringSlots(ctx context.Context, doctorID int64, dateStart, dateEnd time.Time, start, end string, weekdays []time.Weekday) ([]*model.Slot, error) {
	if start >= end {
		return nil, apperrors.Validation("start time must be before end time")
	}

	wanted := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		wanted[d] = true
	}

	created := []*model.Slot{}
	for date := truncate(dateStart); !date.After(truncate(dateEnd)); date = date.AddDate(0, 0, 1) {
		if !wanted[date.Weekday()] || beforeToday(date) {
			continue
		}

		slot, err := s.CreateSlot(ctx, doctorID, date, start, end)
		if err != nil {
			if apperrors.IsConflict(err) {
				s.logger.Debug().
					Int64("doctor_id", doctorID).
					Time("date", date).
					Msg("skipping conflicting recurring slot")
				continue
			}
			return nil, err
		}
		created = append(created, slot)
	}
	return created, nil
}

// MarkUnavailable idempotently flips a slot to unavailable. Returns false
// when the slot does not exist.
func (s *Service) MarkUnavailable(ctx context.Context, id int64) (bool, error) {
	return s.repo.MarkUnavailable(ctx, id)
}

// UpdateSlot applies field changes. Flipping an available slot to
// unavailable is refused while active appointments reference it.
func (s *Service) UpdateSlot(ctx context.Context, id int64, date time.Time, start, end string, available bool) (*model.Slot, error) {
	if start >= end {
		return nil, apperrors.Validation("start time must be before end time")
	}

	slot, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !available && slot.Available {
		active, err := s.repo.HasActiveAppointments(ctx, id)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, apperrors.Conflict("cannot mark a slot with active appointments as unavailable")
		}
	}

	slot.Date = date
	slot.StartTime = start
	slot.EndTime = end
	slot.Available = available

	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// DeleteSlot removes a slot unless a non-cancelled, non-completed
// appointment references it. Returns false when the slot does not exist.
func (s *Service) DeleteSlot(ctx context.Context, id int64) (bool, error) {
	active, err := s.repo.HasActiveAppointments(ctx, id)
	if err != nil {
		return false, err
	}
	if active {
		return false, apperrors.Conflict("cannot delete a slot with active appointments")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListSlots(ctx context.Context) ([]*model.Slot, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListSlotsByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *Service) ListAvailableSlots(ctx context.Context, doctorID int64, date time.Time) ([]*model.Slot, error) {
	return s.repo.ListAvailableByDoctorDate(ctx, doctorID, date)
}

func (s *Service) ListAvailableSlotsBySpecialty(ctx context.Context, specialtyID int64, date time.Time) ([]*model.Slot, error) {
	return s.repo.ListAvailableBySpecialtyDate(ctx, specialtyID, date)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func beforeToday(date time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	return truncate(date).Before(today)
}
