package slot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type fakeSlotRepo struct {
	mu          sync.Mutex
	seq         int64
	slots       map[int64]*model.Slot
	activeAppts map[int64]bool
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		slots:       make(map[int64]*model.Slot),
		activeAppts: make(map[int64]bool),
	}
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *model.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.DoctorID == slot.DoctorID && sameDate(s.Date, slot.Date) &&
			slot.StartTime < s.EndTime && slot.EndTime > s.StartTime {
			return apperrors.Conflict("a slot already overlaps the given interval")
		}
	}

	r.seq++
	slot.ID = r.seq
	slot.Available = true
	slot.CreatedAt = time.Now()
	r.slots[slot.ID] = slot
	return nil
}

func (r *fakeSlotRepo) Get(ctx context.Context, id int64) (*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, apperrors.NotFound("slot", nil)
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *model.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return apperrors.NotFound("slot", nil)
	}
	copied := *slot
	r.slots[slot.ID] = &copied
	return nil
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return apperrors.NotFound("slot", nil)
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeSlotRepo) MarkUnavailable(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return false, nil
	}
	s.Available = false
	return true, nil
}

func (r *fakeSlotRepo) List(ctx context.Context) ([]*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Slot
	for _, s := range r.slots {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeSlotRepo) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) ListAvailableByDoctorDate(ctx context.Context, doctorID int64, date time.Time) ([]*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID && s.Available && sameDate(s.Date, date) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) ListAvailableBySpecialtyDate(ctx context.Context, specialtyID int64, date time.Time) ([]*model.Slot, error) {
	return nil, nil
}

func (r *fakeSlotRepo) HasOverlap(ctx context.Context, doctorID int64, date time.Time, start, end string, excludeID *int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.DoctorID == doctorID && sameDate(s.Date, date) &&
			start < s.EndTime && end > s.StartTime {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSlotRepo) HasActiveAppointments(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeAppts[id], nil
}

type fakeDoctorRepo struct {
	doctors map[int64]*model.Doctor
}

func (r *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }

func (r *fakeDoctorRepo) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d, nil
}

func (r *fakeDoctorRepo) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	return nil, apperrors.NotFound("doctor", nil)
}

func (r *fakeDoctorRepo) GetByLicense(ctx context.Context, license string) (*model.Doctor, error) {
	return nil, apperrors.NotFound("doctor", nil)
}

func (r *fakeDoctorRepo) Update(ctx context.Context, d *model.Doctor) error { return nil }

func (r *fakeDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }

func (r *fakeDoctorRepo) ListBySpecialty(ctx context.Context, specialtyID int64) ([]*model.Doctor, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) ListWithAvailableSlots(ctx context.Context, date time.Time) ([]*model.Doctor, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) Search(ctx context.Context, term string) ([]*model.Doctor, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) HasActiveAppointments(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func newTestService() (*Service, *fakeSlotRepo) {
	slots := newFakeSlotRepo()
	doctors := &fakeDoctorRepo{doctors: map[int64]*model.Doctor{
		1: {ID: 1, FirstName: "Laura", LastName: "Mendoza", SpecialtyID: 1, Active: true},
		2: {ID: 2, FirstName: "Retired", LastName: "Doctor", SpecialtyID: 1, Active: false},
	}}
	nop := zerolog.Nop()
	return NewService(slots, doctors, nil, &nop), slots
}

func futureDate(days int) time.Time {
	t := time.Now().AddDate(0, 0, days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func TestCreateSlot(t *testing.T) {
	svc, _ := newTestService()

	slot, err := svc.CreateSlot(context.Background(), 1, futureDate(1), "09:00", "09:30")
	require.NoError(t, err)
	assert.True(t, slot.Available)
	assert.NotZero(t, slot.ID)
	assert.Equal(t, "09:00", slot.StartTime)
}

func TestCreateSlotRejectsInvertedInterval(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSlot(context.Background(), 1, futureDate(1), "10:00", "09:00")
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateSlot(context.Background(), 1, futureDate(1), "10:00", "10:00")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateSlotRejectsPastDate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSlot(context.Background(), 1, futureDate(-1), "09:00", "09:30")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateSlotUnknownOrInactiveDoctor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSlot(context.Background(), 99, futureDate(1), "09:00", "09:30")
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.CreateSlot(context.Background(), 2, futureDate(1), "09:00", "09:30")
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateSlotOverlap(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	date := futureDate(1)

	_, err := svc.CreateSlot(ctx, 1, date, "09:00", "10:00")
	require.NoError(t, err)

	// Partial overlap is refused.
	_, err = svc.CreateSlot(ctx, 1, date, "09:30", "10:30")
	assert.True(t, apperrors.IsConflict(err))

	// Adjacent intervals share only a boundary and are fine.
	_, err = svc.CreateSlot(ctx, 1, date, "10:00", "11:00")
	assert.NoError(t, err)

	// Same interval on another date is fine.
	_, err = svc.CreateSlot(ctx, 1, futureDate(2), "09:00", "10:00")
	assert.NoError(t, err)
}

// Monday..Friday of the week at least seven days out, so every generated
// date is in the future regardless of the weekday the test runs on.
func nextMonday() time.Time {
	d := futureDate(7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestCreateRecurringSlots(t *testing.T) {
	svc, _ := newTestService()

	start := nextMonday()
	end := start.AddDate(0, 0, 13)
	weekdays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}

	created, err := svc.CreateRecurringSlots(context.Background(), 1, start, end, "09:00", "09:30", weekdays)
	require.NoError(t, err)
	assert.Len(t, created, 6)
	for _, s := range created {
		assert.Contains(t, weekdays, s.Date.Weekday())
		assert.True(t, s.Available)
	}
}

func TestCreateRecurringSlotsSkipsConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	start := nextMonday()
	end := start.AddDate(0, 0, 13)

	// Occupy the first Monday up front.
	_, err := svc.CreateSlot(ctx, 1, start, "09:00", "09:30")
	require.NoError(t, err)

	created, err := svc.CreateRecurringSlots(ctx, 1, start, end, "09:00", "09:30",
		[]time.Weekday{time.Monday, time.Wednesday, time.Friday})
	require.NoError(t, err)
	assert.Len(t, created, 5)
}

func TestCreateRecurringSlotsRejectsInvertedInterval(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateRecurringSlots(context.Background(), 1, futureDate(1), futureDate(7),
		"10:00", "09:00", []time.Weekday{time.Monday})
	assert.True(t, apperrors.IsValidation(err))
}

func TestMarkUnavailableIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	slot, err := svc.CreateSlot(ctx, 1, futureDate(1), "09:00", "09:30")
	require.NoError(t, err)

	found, err := svc.MarkUnavailable(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.MarkUnavailable(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.MarkUnavailable(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateSlotRefusesHidingBookedSlot(t *testing.T) {
	svc, slots := newTestService()
	ctx := context.Background()

	slot, err := svc.CreateSlot(ctx, 1, futureDate(1), "09:00", "09:30")
	require.NoError(t, err)
	slots.activeAppts[slot.ID] = true

	_, err = svc.UpdateSlot(ctx, slot.ID, slot.Date, "09:00", "09:30", false)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDeleteSlot(t *testing.T) {
	svc, slots := newTestService()
	ctx := context.Background()

	slot, err := svc.CreateSlot(ctx, 1, futureDate(1), "09:00", "09:30")
	require.NoError(t, err)

	found, err := svc.DeleteSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, found)

	// Deleting again reports not found without an error.
	found, err = svc.DeleteSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, found)

	booked, err := svc.CreateSlot(ctx, 1, futureDate(1), "11:00", "11:30")
	require.NoError(t, err)
	slots.activeAppts[booked.ID] = true

	_, err = svc.DeleteSlot(ctx, booked.ID)
	assert.True(t, apperrors.IsConflict(err))
}

func TestListAvailableSlots(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	date := futureDate(1)

	a, err := svc.CreateSlot(ctx, 1, date, "09:00", "09:30")
	require.NoError(t, err)
	_, err = svc.CreateSlot(ctx, 1, date, "09:30", "10:00")
	require.NoError(t, err)

	_, err = svc.MarkUnavailable(ctx, a.ID)
	require.NoError(t, err)

	available, err := svc.ListAvailableSlots(ctx, 1, date)
	require.NoError(t, err)
	assert.Len(t, available, 1)

	// A doctor with no slots yields an empty listing, not an error.
	available, err = svc.ListAvailableSlots(ctx, 2, date)
	require.NoError(t, err)
	assert.Empty(t, available)
}
