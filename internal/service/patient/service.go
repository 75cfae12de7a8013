package patient

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	repo   repository.PatientRepository
	logger *zerolog.Logger
}

func NewService(repo repository.PatientRepository, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, 0); err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
		BirthDate:  birthDate,
		Address:    req.Address,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("patient_id", patient.ID).Msg("patient created")
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetPatientByNationalID(ctx context.Context, nationalID string) (*model.Patient, error) {
	return s.repo.GetByNationalID(ctx, nationalID)
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, req.NationalID, req.Email, id); err != nil {
		return nil, err
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	patient.FirstName = req.FirstName
	patient.LastName = req.LastName
	patient.NationalID = req.NationalID
	patient.Email = req.Email
	patient.Phone = req.Phone
	if !birthDate.IsZero() {
		patient.BirthDate = birthDate
	}
	patient.Address = req.Address
	if req.Active != nil {
		patient.Active = *req.Active
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// DeletePatient soft-deletes. Patients with active appointments cannot be
// removed. Returns false when the patient does not exist.
func (s *Service) DeletePatient(ctx context.Context, id int64) (bool, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	active, err := s.repo.HasActiveAppointments(ctx, id)
	if err != nil {
		return false, err
	}
	if active {
		return false, apperrors.Conflict("cannot delete a patient with active appointments")
	}

	patient.Active = false
	if err := s.repo.Update(ctx, patient); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchPatients(ctx context.Context, term string) ([]*model.Patient, error) {
	return s.repo.Search(ctx, term)
}

func (s *Service) checkUniqueness(ctx context.Context, nationalID, email string, selfID int64) error {
	existing, err := s.repo.GetByNationalID(ctx, nationalID)
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.Conflict("a patient with this national ID already exists")
	}

	existing, err = s.repo.GetByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.Conflict("a patient with this email already exists")
	}
	return nil
}

func parseBirthDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateOnly, s)
	if err != nil {
		return time.Time{}, apperrors.NewValidation("invalid birth date", err)
	}
	return t, nil
}
