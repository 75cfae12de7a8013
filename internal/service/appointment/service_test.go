package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/notifier"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// store backs all fake repositories so booking can flip slot state the way
// the transactional repository does.
type store struct {
	mu           sync.Mutex
	seq          int64
	specialties  map[int64]*model.Specialty
	doctors      map[int64]*model.Doctor
	patients     map[int64]*model.Patient
	slots        map[int64]*model.Slot
	appointments map[int64]*model.Appointment
}

func newStore() *store {
	return &store{
		specialties:  make(map[int64]*model.Specialty),
		doctors:      make(map[int64]*model.Doctor),
		patients:     make(map[int64]*model.Patient),
		slots:        make(map[int64]*model.Slot),
		appointments: make(map[int64]*model.Appointment),
	}
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

type fakeAppointmentRepo struct{ s *store }

func (r *fakeAppointmentRepo) Book(ctx context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.SlotID == nil {
		return apperrors.Validation("slot does not exist or is not available")
	}
	slot, ok := r.s.slots[*a.SlotID]
	if !ok {
		return apperrors.Validation("slot does not exist or is not available")
	}
	if !slot.Available {
		return apperrors.Conflict("slot is already booked")
	}
	for _, existing := range r.s.appointments {
		if existing.SlotID != nil && *existing.SlotID == *a.SlotID &&
			existing.Status != model.AppointmentStatusCancelled {
			return apperrors.Conflict("an appointment already exists for this slot")
		}
	}
	// Re-checked under the lock, like the transactional repository does.
	for _, existing := range r.s.appointments {
		if existing.PatientID == a.PatientID && existing.DoctorID == a.DoctorID &&
			sameDate(existing.DateTime, a.DateTime) &&
			existing.Status != model.AppointmentStatusCancelled {
			return apperrors.Conflict("patient already has an appointment with this doctor on the same day")
		}
	}

	r.s.seq++
	a.ID = r.s.seq
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	copied := *a
	r.s.appointments[a.ID] = &copied
	slot.Available = false
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	copied := *a
	r.s.appointments[a.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) UpdateAndReleaseSlot(ctx context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	copied := *a
	r.s.appointments[a.ID] = &copied
	if a.SlotID != nil {
		if slot, ok := r.s.slots[*a.SlotID]; ok {
			slot.Available = true
		}
	}
	return nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	delete(r.s.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Appointment
	for _, a := range r.s.appointments {
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) ListByDate(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) ListPending(ctx context.Context, now time.Time) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Appointment
	for _, a := range r.s.appointments {
		if a.Status == model.AppointmentStatusScheduled && !a.DateTime.Before(now) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListForDay(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) ExistsActiveForSlot(ctx context.Context, slotID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.SlotID != nil && *a.SlotID == slotID && a.Status != model.AppointmentStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ExistsActiveForPatientDoctorDate(ctx context.Context, patientID, doctorID int64, date time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.PatientID == patientID && a.DoctorID == doctorID &&
			sameDate(a.DateTime, date) && a.Status != model.AppointmentStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type fakeSlotRepo struct{ s *store }

func (r *fakeSlotRepo) Create(ctx context.Context, slot *model.Slot) error { return nil }

func (r *fakeSlotRepo) Get(ctx context.Context, id int64) (*model.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, apperrors.NotFound("slot", nil)
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *model.Slot) error { return nil }
func (r *fakeSlotRepo) Delete(ctx context.Context, id int64) error         { return nil }

func (r *fakeSlotRepo) MarkUnavailable(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (r *fakeSlotRepo) List(ctx context.Context) ([]*model.Slot, error) { return nil, nil }

func (r *fakeSlotRepo) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error) {
	return nil, nil
}

func (r *fakeSlotRepo) ListAvailableByDoctorDate(ctx context.Context, doctorID int64, date time.Time) ([]*model.Slot, error) {
	return nil, nil
}

func (r *fakeSlotRepo) ListAvailableBySpecialtyDate(ctx context.Context, specialtyID int64, date time.Time) ([]*model.Slot, error) {
	return nil, nil
}

func (r *fakeSlotRepo) HasOverlap(ctx context.Context, doctorID int64, date time.Time, start, end string, excludeID *int64) (bool, error) {
	return false, nil
}

func (r *fakeSlotRepo) HasActiveAppointments(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

type fakeDoctorRepo struct{ s *store }

func (r *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }

func (r *fakeDoctorRepo) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	d, ok := r.s.doctors[id]
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

type fakePatientRepo struct{ s *store }

func (r *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }

func (r *fakePatientRepo) Get(ctx context.Context, id int64) (*model.Patient, error) {
	p, ok := r.s.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return p, nil
}

func (r *fakePatientRepo) GetByNationalID(ctx context.Context, nationalID string) (*model.Patient, error) {
	return nil, apperrors.NotFound("patient", nil)
}

func (r *fakePatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	return nil, apperrors.NotFound("patient", nil)
}

func (r *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (r *fakePatientRepo) List(ctx context.Context) ([]*model.Patient, error) { return nil, nil }

func (r *fakePatientRepo) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	return nil, nil
}

func (r *fakePatientRepo) HasActiveAppointments(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

type fakeSpecialtyRepo struct{ s *store }

func (r *fakeSpecialtyRepo) Create(ctx context.Context, sp *model.Specialty) error { return nil }

func (r *fakeSpecialtyRepo) Get(ctx context.Context, id int64) (*model.Specialty, error) {
	sp, ok := r.s.specialties[id]
	if !ok {
		return nil, apperrors.NotFound("specialty", nil)
	}
	return sp, nil
}

func (r *fakeSpecialtyRepo) GetByName(ctx context.Context, name string) (*model.Specialty, error) {
	return nil, apperrors.NotFound("specialty", nil)
}

func (r *fakeSpecialtyRepo) Update(ctx context.Context, sp *model.Specialty) error { return nil }

func (r *fakeSpecialtyRepo) List(ctx context.Context, activeOnly bool) ([]*model.Specialty, error) {
	return nil, nil
}

func (r *fakeSpecialtyRepo) ListWithActiveDoctors(ctx context.Context) ([]*model.Specialty, error) {
	return nil, nil
}

func (r *fakeSpecialtyRepo) HasActiveDoctors(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func futureDate(days int) time.Time {
	t := time.Now().AddDate(0, 0, days)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func newTestService() (*Service, *store) {
	s := newStore()
	s.specialties[1] = &model.Specialty{ID: 1, Name: "General Medicine", Active: true}
	s.specialties[2] = &model.Specialty{ID: 2, Name: "Cardiology", Active: true}
	s.specialties[3] = &model.Specialty{ID: 3, Name: "Closed", Active: false}

	s.doctors[1] = &model.Doctor{ID: 1, FirstName: "Laura", LastName: "Mendoza", SpecialtyID: 1, Active: true}
	s.doctors[2] = &model.Doctor{ID: 2, FirstName: "Carlos", LastName: "Rivas", SpecialtyID: 2, Active: true}
	s.doctors[3] = &model.Doctor{ID: 3, FirstName: "Retired", LastName: "Doctor", SpecialtyID: 1, Active: false}

	s.patients[1] = &model.Patient{ID: 1, FirstName: "Ana", LastName: "Torres", Active: true}
	s.patients[2] = &model.Patient{ID: 2, FirstName: "Jorge", LastName: "Paredes", Active: true}
	s.patients[3] = &model.Patient{ID: 3, FirstName: "Gone", LastName: "Away", Active: false}

	s.slots[10] = &model.Slot{ID: 10, DoctorID: 1, Date: futureDate(1), StartTime: "09:00", EndTime: "09:30", Available: true}
	s.slots[11] = &model.Slot{ID: 11, DoctorID: 1, Date: futureDate(1), StartTime: "10:00", EndTime: "10:30", Available: true}
	s.slots[12] = &model.Slot{ID: 12, DoctorID: 2, Date: futureDate(1), StartTime: "09:00", EndTime: "09:30", Available: true}

	nop := zerolog.Nop()
	svc := NewService(
		&fakeAppointmentRepo{s}, &fakeSlotRepo{s}, &fakeDoctorRepo{s},
		&fakePatientRepo{s}, &fakeSpecialtyRepo{s},
		notifier.Noop{}, nil, nil, &nop,
	)
	return svc, s
}

func TestCreateAppointment(t *testing.T) {
	svc, s := newTestService()

	apt, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10, Reason: "checkup",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	require.NotNil(t, apt.SlotID)
	assert.Equal(t, int64(10), *apt.SlotID)

	// DateTime is the slot's date plus its start time.
	assert.Equal(t, 9, apt.DateTime.Hour())
	assert.True(t, sameDate(apt.DateTime, s.slots[10].Date))

	// Booking flips the slot.
	assert.False(t, s.slots[10].Available)
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  model.CreateAppointmentRequest
	}{
		{"unknown patient", model.CreateAppointmentRequest{PatientID: 99, DoctorID: 1, SpecialtyID: 1, SlotID: 10}},
		{"inactive patient", model.CreateAppointmentRequest{PatientID: 3, DoctorID: 1, SpecialtyID: 1, SlotID: 10}},
		{"unknown doctor", model.CreateAppointmentRequest{PatientID: 1, DoctorID: 99, SpecialtyID: 1, SlotID: 10}},
		{"inactive doctor", model.CreateAppointmentRequest{PatientID: 1, DoctorID: 3, SpecialtyID: 1, SlotID: 10}},
		{"unknown specialty", model.CreateAppointmentRequest{PatientID: 1, DoctorID: 1, SpecialtyID: 99, SlotID: 10}},
		{"inactive specialty", model.CreateAppointmentRequest{PatientID: 1, DoctorID: 1, SpecialtyID: 3, SlotID: 10}},
		{"doctor specialty mismatch", model.CreateAppointmentRequest{PatientID: 1, DoctorID: 1, SpecialtyID: 2, SlotID: 10}},
		{"unknown slot", model.CreateAppointmentRequest{PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 99}},
		{"slot belongs to other doctor", model.CreateAppointmentRequest{PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 12}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(ctx, &tc.req)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateAppointmentUnavailableSlot(t *testing.T) {
	svc, s := newTestService()

	s.slots[10].Available = false
	_, err := svc.CreateAppointment(context.Background(), &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateAppointmentSlotTakenConflict(t *testing.T) {
	svc, s := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)

	// A stale read can still see the slot available while an active
	// appointment already references it.
	s.slots[10].Available = true

	_, err = svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 2, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateAppointmentSameDayRule(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)

	// Same patient, same doctor, same day, different slot.
	_, err = svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 11,
	})
	assert.True(t, apperrors.IsConflict(err))

	// Another patient can take the second slot.
	_, err = svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 2, DoctorID: 1, SpecialtyID: 1, SlotID: 11,
	})
	assert.NoError(t, err)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
				PatientID: int64(i + 1), DoctorID: 1, SpecialtyID: 1, SlotID: 10,
			})
		}(i)
	}
	wg.Wait()

	var success, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case apperrors.IsConflict(err) || apperrors.IsValidation(err):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, conflict)
}

func TestConcurrentSameDayBookingSingleWinner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Same patient and doctor racing for two different slots on the same
	// day. Both requests can pass the service pre-checks before either
	// booking lands, so the booking itself must enforce the rule.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
				PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: int64(10 + i),
			})
		}(i)
	}
	wg.Wait()

	var success, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case apperrors.IsConflict(err):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, conflict)
}

func TestCancelReleasesSlot(t *testing.T) {
	svc, s := newTestService()
	ctx := context.Background()

	apt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)
	require.False(t, s.slots[10].Available)

	found, err := svc.CancelAppointment(ctx, apt.ID, "patient request")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, s.slots[10].Available)

	cancelled, err := svc.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "patient request")

	// The released slot is bookable again by someone else.
	_, err = svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 2, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	assert.NoError(t, err)
}

func TestCancelGuards(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	found, err := svc.CancelAppointment(ctx, 9999, "")
	require.NoError(t, err)
	assert.False(t, found)

	apt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)

	_, err = svc.CancelAppointment(ctx, apt.ID, "")
	require.NoError(t, err)

	_, err = svc.CancelAppointment(ctx, apt.ID, "")
	assert.True(t, apperrors.IsConflict(err))

	completed, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 2, DoctorID: 1, SpecialtyID: 1, SlotID: 11,
	})
	require.NoError(t, err)
	_, err = svc.CompleteAppointment(ctx, completed.ID, "")
	require.NoError(t, err)

	_, err = svc.CancelAppointment(ctx, completed.ID, "")
	assert.True(t, apperrors.IsConflict(err))
}

func TestCompleteKeepsSlotBooked(t *testing.T) {
	svc, s := newTestService()
	ctx := context.Background()

	apt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)

	found, err := svc.CompleteAppointment(ctx, apt.ID, "all good")
	require.NoError(t, err)
	assert.True(t, found)

	// Completing does not free the slot.
	assert.False(t, s.slots[10].Available)

	done, err := svc.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, done.Status)
	assert.Contains(t, done.Notes, "all good")

	_, err = svc.CompleteAppointment(ctx, apt.ID, "")
	assert.True(t, apperrors.IsConflict(err))

	found, err = svc.CompleteAppointment(ctx, 9999, "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteOnlyCancelledAppointments(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	found, err := svc.DeleteAppointment(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, found)

	apt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)

	_, err = svc.DeleteAppointment(ctx, apt.ID)
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.CancelAppointment(ctx, apt.ID, "")
	require.NoError(t, err)

	found, err = svc.DeleteAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestUpdateEnteringCancelledReleasesSlot(t *testing.T) {
	svc, s := newTestService()
	ctx := context.Background()

	apt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)

	cancelled := model.AppointmentStatusCancelled
	updated, err := svc.UpdateAppointment(ctx, apt.ID, &model.UpdateAppointmentRequest{
		Status: &cancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	assert.True(t, s.slots[10].Available)
}

func TestUpdateAppointmentFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	apt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10, Reason: "checkup",
	})
	require.NoError(t, err)

	reason := "follow-up"
	confirmed := model.AppointmentStatusConfirmed
	updated, err := svc.UpdateAppointment(ctx, apt.ID, &model.UpdateAppointmentRequest{
		Reason: &reason,
		Status: &confirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, "follow-up", updated.Reason)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)
}

func TestListPendingExcludesTerminalAndPast(t *testing.T) {
	svc, s := newTestService()
	ctx := context.Background()

	apt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 1, DoctorID: 1, SpecialtyID: 1, SlotID: 10,
	})
	require.NoError(t, err)

	other, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 2, DoctorID: 1, SpecialtyID: 1, SlotID: 11,
	})
	require.NoError(t, err)

	_, err = svc.CancelAppointment(ctx, other.ID, "")
	require.NoError(t, err)

	// Confirmed appointments are no longer pending either.
	confirmedApt, err := svc.CreateAppointment(ctx, &model.CreateAppointmentRequest{
		PatientID: 2, DoctorID: 2, SpecialtyID: 2, SlotID: 12,
	})
	require.NoError(t, err)
	confirmed := model.AppointmentStatusConfirmed
	_, err = svc.UpdateAppointment(ctx, confirmedApt.ID, &model.UpdateAppointmentRequest{Status: &confirmed})
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, apt.ID, pending[0].ID)

	// Push the remaining appointment into the past.
	s.mu.Lock()
	s.appointments[apt.ID].DateTime = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	pending, err = svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
