package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clinicore/clinic-api/internal/model"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

func (r *specialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	query := `
		INSERT INTO specialties (name, description, active, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	specialty.Active = true
	specialty.CreatedAt = time.Now()

	err := r.db.QueryRowxContext(ctx, query,
		specialty.Name,
		specialty.Description,
		specialty.Active,
		specialty.CreatedAt,
	).Scan(&specialty.ID)
	if err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}
	return nil
}

func (r *specialtyRepository) Get(ctx context.Context, id int64) (*model.Specialty, error) {
	query := `
		SELECT id, name, description, active, created_at
		FROM specialties
		WHERE id = $1
	`
	var specialty model.Specialty
	err := r.db.GetContext(ctx, &specialty, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("specialty", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty: %w", err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) GetByName(ctx context.Context, name string) (*model.Specialty, error) {
	query := `
		SELECT id, name, description, active, created_at
		FROM specialties
		WHERE LOWER(name) = LOWER($1)
	`
	var specialty model.Specialty
	err := r.db.GetContext(ctx, &specialty, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("specialty", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty by name: %w", err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) Update(ctx context.Context, specialty *model.Specialty) error {
	query := `
		UPDATE specialties
		SET name = $1, description = $2, active = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		specialty.Name,
		specialty.Description,
		specialty.Active,
		specialty.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update specialty: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("specialty", nil)
	}
	return nil
}

func (r *specialtyRepository) List(ctx context.Context, activeOnly bool) ([]*model.Specialty, error) {
	query := `
		SELECT id, name, description, active, created_at
		FROM specialties
	`
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name ASC"

	specialties := []*model.Specialty{}
	if err := r.db.SelectContext(ctx, &specialties, query); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}

func (r *specialtyRepository) ListWithActiveDoctors(ctx context.Context) ([]*model.Specialty, error) {
	query := `
		SELECT DISTINCT s.id, s.name, s.description, s.active, s.created_at
		FROM specialties s
		JOIN doctors d ON d.specialty_id = s.id AND d.active
		WHERE s.active
		ORDER BY s.name ASC
	`
	specialties := []*model.Specialty{}
	if err := r.db.SelectContext(ctx, &specialties, query); err != nil {
		return nil, fmt.Errorf("failed to list specialties with doctors: %w", err)
	}
	return specialties, nil
}

func (r *specialtyRepository) HasActiveDoctors(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM doctors
			WHERE specialty_id = $1 AND active
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check specialty doctors: %w", err)
	}
	return exists, nil
}
