package repository

import (
	"context"
	"time"

	"github.com/clinicore/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	SpecialtyRepository interface {
		Create(ctx context.Context, specialty *model.Specialty) error
		Get(ctx context.Context, id int64) (*model.Specialty, error)
		GetByName(ctx context.Context, name string) (*model.Specialty, error)
		Update(ctx context.Context, specialty *model.Specialty) error
		List(ctx context.Context, activeOnly bool) ([]*model.Specialty, error)
		ListWithActiveDoctors(ctx context.Context) ([]*model.Specialty, error)
		HasActiveDoctors(ctx context.Context, id int64) (bool, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id int64) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		GetByLicense(ctx context.Context, license string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context) ([]*model.Doctor, error)
		ListBySpecialty(ctx context.Context, specialtyID int64) ([]*model.Doctor, error)
		ListWithAvailableSlots(ctx context.Context, date time.Time) ([]*model.Doctor, error)
		Search(ctx context.Context, term string) ([]*model.Doctor, error)
		HasActiveAppointments(ctx context.Context, id int64) (bool, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		GetByNationalID(ctx context.Context, nationalID string) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		List(ctx context.Context) ([]*model.Patient, error)
		Search(ctx context.Context, term string) ([]*model.Patient, error)
		HasActiveAppointments(ctx context.Context, id int64) (bool, error)
	}

	SlotRepository interface {
		// Create inserts the slot after re-checking overlap under a
		// doctor-row lock, so concurrent creates cannot interleave.
		Create(ctx context.Context, slot *model.Slot) error
		Get(ctx context.Context, id int64) (*model.Slot, error)
		Update(ctx context.Context, slot *model.Slot) error
		Delete(ctx context.Context, id int64) error
		MarkUnavailable(ctx context.Context, id int64) (bool, error)
		List(ctx context.Context) ([]*model.Slot, error)
		ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error)
		ListAvailableByDoctorDate(ctx context.Context, doctorID int64, date time.Time) ([]*model.Slot, error)
		ListAvailableBySpecialtyDate(ctx context.Context, specialtyID int64, date time.Time) ([]*model.Slot, error)
		HasOverlap(ctx context.Context, doctorID int64, date time.Time, start, end string, excludeID *int64) (bool, error)
		HasActiveAppointments(ctx context.Context, id int64) (bool, error)
	}

	AppointmentRepository interface {
		// Book inserts the appointment and flips the slot to unavailable in
		// one transaction, locking the slot row. Exactly one of two
		// concurrent attempts on a slot succeeds.
		Book(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		// UpdateAndReleaseSlot persists the appointment and sets its slot
		// back to available in one transaction.
		UpdateAndReleaseSlot(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error)
		ListByDate(ctx context.Context, date time.Time) ([]*model.Appointment, error)
		ListPending(ctx context.Context, now time.Time) ([]*model.Appointment, error)
		ListForDay(ctx context.Context, date time.Time) ([]*model.Appointment, error)
		ExistsActiveForSlot(ctx context.Context, slotID int64) (bool, error)
		ExistsActiveForPatientDoctorDate(ctx context.Context, patientID, doctorID int64, date time.Time) (bool, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.User, error)
	}
)
