package doctor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	repo          repository.DoctorRepository
	specialtyRepo repository.SpecialtyRepository
	logger        *zerolog.Logger
}

func NewService(repo repository.DoctorRepository, specialtyRepo repository.SpecialtyRepository, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, specialtyRepo: specialtyRepo, logger: logger}
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if err := s.validateReferences(ctx, req.SpecialtyID, req.Email, req.LicenseNumber, 0); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		SpecialtyID:   req.SpecialtyID,
		LicenseNumber: req.LicenseNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("doctor_id", doctor.ID).Msg("doctor created")
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, id int64, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateReferences(ctx, req.SpecialtyID, req.Email, req.LicenseNumber, id); err != nil {
		return nil, err
	}

	doctor.FirstName = req.FirstName
	doctor.LastName = req.LastName
	doctor.SpecialtyID = req.SpecialtyID
	doctor.LicenseNumber = req.LicenseNumber
	doctor.Email = req.Email
	doctor.Phone = req.Phone
	doctor.Address = req.Address
	if req.Active != nil {
		doctor.Active = *req.Active
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// DeleteDoctor soft-deletes. Doctors with active appointments cannot be
// removed. Returns false when the doctor does not exist.
func (s *Service) DeleteDoctor(ctx context.Context, id int64) (bool, error) {
	doctor, err := s.repo.Get(ctx, id)
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
		return false, apperrors.Conflict("cannot delete a doctor with active appointments")
	}

	doctor.Active = false
	if err := s.repo.Update(ctx, doctor); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListDoctorsBySpecialty(ctx context.Context, specialtyID int64) ([]*model.Doctor, error) {
	return s.repo.ListBySpecialty(ctx, specialtyID)
}

func (s *Service) ListDoctorsWithAvailableSlots(ctx context.Context, date time.Time) ([]*model.Doctor, error) {
	return s.repo.ListWithAvailableSlots(ctx, date)
}

func (s *Service) SearchDoctors(ctx context.Context, term string) ([]*model.Doctor, error) {
	return s.repo.Search(ctx, term)
}

func (s *Service) validateReferences(ctx context.Context, specialtyID int64, email, license string, selfID int64) error {
	specialty, err := s.specialtyRepo.Get(ctx, specialtyID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidation("specialty does not exist or is not active", err)
		}
		return err
	}
	if !specialty.Active {
		return apperrors.Validation("specialty does not exist or is not active")
	}

	if email != "" {
		existing, err := s.repo.GetByEmail(ctx, email)
		if err != nil && !apperrors.IsNotFound(err) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return apperrors.Conflict("a doctor with this email already exists")
		}
	}

	if license != "" {
		existing, err := s.repo.GetByLicense(ctx, license)
		if err != nil && !apperrors.IsNotFound(err) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return apperrors.Conflict("a doctor with this license number already exists")
		}
	}
	return nil
}
