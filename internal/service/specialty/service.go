package specialty

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	repo   repository.SpecialtyRepository
	logger *zerolog.Logger
}

func NewService(repo repository.SpecialtyRepository, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateSpecialty(ctx context.Context, req *model.CreateSpecialtyRequest) (*model.Specialty, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("a specialty with this name already exists")
	}

	specialty := &model.Specialty{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, specialty); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("specialty_id", specialty.ID).Str("name", specialty.Name).Msg("specialty created")
	return specialty, nil
}

func (s *Service) GetSpecialty(ctx context.Context, id int64) (*model.Specialty, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateSpecialty(ctx context.Context, id int64, req *model.UpdateSpecialtyRequest) (*model.Specialty, error) {
	specialty, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	duplicate, err := s.repo.GetByName(ctx, req.Name)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if duplicate != nil && duplicate.ID != id {
		return nil, apperrors.Conflict("a specialty with this name already exists")
	}

	specialty.Name = req.Name
	specialty.Description = req.Description
	if req.Active != nil {
		specialty.Active = *req.Active
	}

	if err := s.repo.Update(ctx, specialty); err != nil {
		return nil, err
	}
	return specialty, nil
}

// DeleteSpecialty soft-deletes. A specialty with active doctors cannot be
// removed. Returns false when the specialty does not exist.
func (s *Service) DeleteSpecialty(ctx context.Context, id int64) (bool, error) {
	specialty, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	hasDoctors, err := s.repo.HasActiveDoctors(ctx, id)
	if err != nil {
		return false, err
	}
	if hasDoctors {
		return false, apperrors.Conflict("cannot delete a specialty with active doctors")
	}

	specialty.Active = false
	if err := s.repo.Update(ctx, specialty); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListSpecialties(ctx context.Context) ([]*model.Specialty, error) {
	return s.repo.List(ctx, true)
}

func (s *Service) ListSpecialtiesWithDoctors(ctx context.Context) ([]*model.Specialty, error) {
	return s.repo.ListWithActiveDoctors(ctx)
}
