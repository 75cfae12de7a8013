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

const doctorColumns = `
	id, first_name, last_name, specialty_id, license_number,
	email, phone, address, active, registered_at
`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			first_name, last_name, specialty_id, license_number,
			email, phone, address, active, registered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	doctor.Active = true
	doctor.RegisteredAt = time.Now()

	err := r.db.QueryRowxContext(ctx, query,
		doctor.FirstName,
		doctor.LastName,
		doctor.SpecialtyID,
		doctor.LicenseNumber,
		doctor.Email,
		doctor.Phone,
		doctor.Address,
		doctor.Active,
		doctor.RegisteredAt,
	).Scan(&doctor.ID)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE email = $1`

	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByLicense(ctx context.Context, license string) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE license_number = $1`

	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, license)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by license: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET first_name = $1, last_name = $2, specialty_id = $3,
			license_number = $4, email = $5, phone = $6, address = $7,
			active = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		doctor.FirstName,
		doctor.LastName,
		doctor.SpecialtyID,
		doctor.LicenseNumber,
		doctor.Email,
		doctor.Phone,
		doctor.Address,
		doctor.Active,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE active
		ORDER BY first_name ASC, last_name ASC
	`
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListBySpecialty(ctx context.Context, specialtyID int64) ([]*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE specialty_id = $1 AND active
		ORDER BY first_name ASC, last_name ASC
	`
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, specialtyID); err != nil {
		return nil, fmt.Errorf("failed to list doctors by specialty: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListWithAvailableSlots(ctx context.Context, date time.Time) ([]*model.Doctor, error) {
	query := `
		SELECT DISTINCT d.id, d.first_name, d.last_name, d.specialty_id,
			d.license_number, d.email, d.phone, d.address, d.active,
			d.registered_at
		FROM doctors d
		JOIN slots s ON s.doctor_id = d.id
		WHERE d.active AND s.available AND s.date = $1
		ORDER BY d.first_name ASC, d.last_name ASC
	`
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, dateOnly(date)); err != nil {
		return nil, fmt.Errorf("failed to list doctors with available slots: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Search(ctx context.Context, term string) ([]*model.Doctor, error) {
	query := `
		SELECT d.id, d.first_name, d.last_name, d.specialty_id,
			d.license_number, d.email, d.phone, d.address, d.active,
			d.registered_at
		FROM doctors d
		JOIN specialties sp ON sp.id = d.specialty_id
		WHERE d.active AND (
			d.first_name ILIKE $1 OR d.last_name ILIKE $1 OR
			d.email ILIKE $1 OR d.license_number ILIKE $1 OR
			sp.name ILIKE $1
		)
		ORDER BY d.first_name ASC, d.last_name ASC
	`
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, "%"+term+"%"); err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) HasActiveAppointments(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND status NOT IN ('cancelled', 'completed')
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check doctor appointments: %w", err)
	}
	return exists, nil
}
