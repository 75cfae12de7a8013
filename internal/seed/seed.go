package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-api/internal/model"
	appointmentService "github.com/clinicore/clinic-api/internal/service/appointment"
	doctorService "github.com/clinicore/clinic-api/internal/service/doctor"
	patientService "github.com/clinicore/clinic-api/internal/service/patient"
	slotService "github.com/clinicore/clinic-api/internal/service/slot"
	specialtyService "github.com/clinicore/clinic-api/internal/service/specialty"
	userService "github.com/clinicore/clinic-api/internal/service/user"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// Seeder loads a small demo dataset through the regular services so every
// row passes the same validation as API traffic. Rows that already exist
// are skipped, so reruns are safe.
type Seeder struct {
	specialties  *specialtyService.Service
	doctors      *doctorService.Service
	patients     *patientService.Service
	slots        *slotService.Service
	appointments *appointmentService.Service
	users        *userService.Service
	logger       *zerolog.Logger
}

func NewSeeder(
	specialties *specialtyService.Service,
	doctors *doctorService.Service,
	patients *patientService.Service,
	slots *slotService.Service,
	appointments *appointmentService.Service,
	users *userService.Service,
	logger *zerolog.Logger,
) *Seeder {
	return &Seeder{
		specialties:  specialties,
		doctors:      doctors,
		patients:     patients,
		slots:        slots,
		appointments: appointments,
		users:        users,
		logger:       logger,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	specialtyIDs, err := s.seedSpecialties(ctx)
	if err != nil {
		return err
	}

	doctorIDs, err := s.seedDoctors(ctx, specialtyIDs)
	if err != nil {
		return err
	}

	patientIDs, err := s.seedPatients(ctx)
	if err != nil {
		return err
	}

	if err := s.seedSlots(ctx, doctorIDs); err != nil {
		return err
	}

	if err := s.seedUsers(ctx); err != nil {
		return err
	}

	s.logger.Info().
		Int("specialties", len(specialtyIDs)).
		Int("doctors", len(doctorIDs)).
		Int("patients", len(patientIDs)).
		Msg("demo data loaded")
	return nil
}

func (s *Seeder) seedSpecialties(ctx context.Context) (map[string]int64, error) {
	requests := []model.CreateSpecialtyRequest{
		{Name: "General Medicine", Description: "Primary care and routine checkups"},
		{Name: "Cardiology", Description: "Heart and vascular conditions"},
		{Name: "Dermatology", Description: "Skin conditions"},
		{Name: "Pediatrics", Description: "Care for children and adolescents"},
	}

	ids := make(map[string]int64, len(requests))
	for i := range requests {
		created, err := s.specialties.CreateSpecialty(ctx, &requests[i])
		if err != nil {
			if apperrors.IsConflict(err) || apperrors.IsValidation(err) {
				s.logger.Debug().Str("name", requests[i].Name).Msg("specialty already present")
				continue
			}
			return nil, err
		}
		ids[created.Name] = created.ID
	}
	return ids, nil
}

func (s *Seeder) seedDoctors(ctx context.Context, specialties map[string]int64) ([]int64, error) {
	type entry struct {
		req       model.CreateDoctorRequest
		specialty string
	}
	entries := []entry{
		{
			req: model.CreateDoctorRequest{
				FirstName: "Laura", LastName: "Mendoza",
				LicenseNumber: "MED-10001", Email: "laura.mendoza@clinic.example",
				Phone: "555-0101",
			},
			specialty: "General Medicine",
		},
		{
			req: model.CreateDoctorRequest{
				FirstName: "Carlos", LastName: "Rivas",
				LicenseNumber: "MED-10002", Email: "carlos.rivas@clinic.example",
				Phone: "555-0102",
			},
			specialty: "Cardiology",
		},
		{
			req: model.CreateDoctorRequest{
				FirstName: "Elena", LastName: "Soto",
				LicenseNumber: "MED-10003", Email: "elena.soto@clinic.example",
				Phone: "555-0103",
			},
			specialty: "Pediatrics",
		},
	}

	var ids []int64
	for _, e := range entries {
		specialtyID, ok := specialties[e.specialty]
		if !ok {
			continue
		}
		e.req.SpecialtyID = specialtyID

		created, err := s.doctors.CreateDoctor(ctx, &e.req)
		if err != nil {
			if apperrors.IsConflict(err) || apperrors.IsValidation(err) {
				s.logger.Debug().Str("email", e.req.Email).Msg("doctor already present")
				continue
			}
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}

func (s *Seeder) seedPatients(ctx context.Context) ([]int64, error) {
	requests := []model.CreatePatientRequest{
		{
			FirstName: "Ana", LastName: "Torres",
			NationalID: "100200300", Email: "ana.torres@mail.example",
			Phone: "555-0201", BirthDate: "1988-04-12",
		},
		{
			FirstName: "Jorge", LastName: "Paredes",
			NationalID: "100200301", Email: "jorge.paredes@mail.example",
			Phone: "555-0202", BirthDate: "1975-11-03",
		},
		{
			FirstName: "Sofia", LastName: "Nunez",
			NationalID: "100200302", Email: "sofia.nunez@mail.example",
			Phone: "555-0203", BirthDate: "2001-07-29",
		},
	}

	var ids []int64
	for i := range requests {
		created, err := s.patients.CreatePatient(ctx, &requests[i])
		if err != nil {
			if apperrors.IsConflict(err) || apperrors.IsValidation(err) {
				s.logger.Debug().Str("national_id", requests[i].NationalID).Msg("patient already present")
				continue
			}
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}

func (s *Seeder) seedSlots(ctx context.Context, doctorIDs []int64) error {
	start := time.Now().AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 13)
	weekdays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}

	hours := [][2]string{
		{"09:00", "09:30"},
		{"09:30", "10:00"},
		{"10:00", "10:30"},
	}

	for _, doctorID := range doctorIDs {
		for _, h := range hours {
			if _, err := s.slots.CreateRecurringSlots(ctx, doctorID, start, end, h[0], h[1], weekdays); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	req := model.CreateUserRequest{
		Name:     "Front Desk",
		Email:    "frontdesk@clinic.example",
		Password: "change-me-please",
	}
	if _, err := s.users.CreateUser(ctx, &req); err != nil {
		if apperrors.IsConflict(err) || apperrors.IsValidation(err) {
			s.logger.Debug().Str("email", req.Email).Msg("user already present")
			return nil
		}
		return err
	}
	return nil
}
