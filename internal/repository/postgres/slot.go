package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinicore/clinic-api/internal/model"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

const slotColumns = `id, doctor_id, date, start_time, end_time, available, created_at`

// slotOverlap matches any slot whose [start_time, end_time) interval
// intersects the candidate interval on the same doctor and date. Times are
// zero-padded HH:MM so string comparison is interval comparison.
const slotOverlap = `
	SELECT EXISTS (
		SELECT 1 FROM slots
		WHERE doctor_id = $1
		AND date = $2
		AND start_time < $4
		AND end_time > $3
`

func (r *slotRepository) Create(ctx context.Context, slot *model.Slot) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Serialize slot creation per doctor so two concurrent requests
		// cannot both pass the overlap check.
		var doctorID int64
		err := tx.GetContext(ctx, &doctorID,
			`SELECT id FROM doctors WHERE id = $1 FOR UPDATE`, slot.DoctorID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewConflict("doctor does not exist or is not active", err)
		}
		if err != nil {
			return fmt.Errorf("failed to lock doctor row: %w", err)
		}

		var overlap bool
		err = tx.GetContext(ctx, &overlap, slotOverlap+")",
			slot.DoctorID, dateOnly(slot.Date), slot.StartTime, slot.EndTime)
		if err != nil {
			return fmt.Errorf("failed to check slot overlap: %w", err)
		}
		if overlap {
			return apperrors.Conflict("a slot already overlaps the given interval")
		}

		slot.Available = true
		slot.CreatedAt = time.Now()

		query := `
			INSERT INTO slots (doctor_id, date, start_time, end_time, available, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		err = tx.QueryRowxContext(ctx, query,
			slot.DoctorID,
			dateOnly(slot.Date),
			slot.StartTime,
			slot.EndTime,
			slot.Available,
			slot.CreatedAt,
		).Scan(&slot.ID)
		if err != nil {
			return fmt.Errorf("failed to create slot: %w", err)
		}
		return nil
	})
}

func (r *slotRepository) Get(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	var slot model.Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("slot", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return &slot, nil
}

func (r *slotRepository) Update(ctx context.Context, slot *model.Slot) error {
	query := `
		UPDATE slots
		SET date = $1, start_time = $2, end_time = $3, available = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		dateOnly(slot.Date),
		slot.StartTime,
		slot.EndTime,
		slot.Available,
		slot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("slot", nil)
	}
	return nil
}

func (r *slotRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("slot", nil)
	}
	return nil
}

func (r *slotRepository) MarkUnavailable(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE slots SET available = false WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark slot unavailable: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *slotRepository) List(ctx context.Context) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		ORDER BY date ASC, start_time ASC
	`
	slots := []*model.Slot{}
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (r *slotRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE doctor_id = $1
		ORDER BY date ASC, start_time ASC
	`
	slots := []*model.Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list slots by doctor: %w", err)
	}
	return slots, nil
}

func (r *slotRepository) ListAvailableByDoctorDate(ctx context.Context, doctorID int64, date time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE doctor_id = $1 AND date = $2 AND available
		ORDER BY start_time ASC
	`
	slots := []*model.Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, doctorID, dateOnly(date)); err != nil {
		return nil, fmt.Errorf("failed to list available slots: %w", err)
	}
	return slots, nil
}

func (r *slotRepository) ListAvailableBySpecialtyDate(ctx context.Context, specialtyID int64, date time.Time) ([]*model.Slot, error) {
	query := `
		SELECT s.id, s.doctor_id, s.date, s.start_time, s.end_time,
			s.available, s.created_at
		FROM slots s
		JOIN doctors d ON d.id = s.doctor_id
		WHERE d.specialty_id = $1 AND d.active
		AND s.date = $2 AND s.available
		ORDER BY d.first_name ASC, d.last_name ASC, s.start_time ASC
	`
	slots := []*model.Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, specialtyID, dateOnly(date)); err != nil {
		return nil, fmt.Errorf("failed to list available slots by specialty: %w", err)
	}
	return slots, nil
}

func (r *slotRepository) HasOverlap(ctx context.Context, doctorID int64, date time.Time, start, end string, excludeID *int64) (bool, error) {
	query := slotOverlap
	args := []interface{}{doctorID, dateOnly(date), start, end}

	if excludeID != nil {
		query += " AND id != $5"
		args = append(args, *excludeID)
	}
	query += ")"

	var overlap bool
	if err := r.db.GetContext(ctx, &overlap, query, args...); err != nil {
		return false, fmt.Errorf("failed to check slot overlap: %w", err)
	}
	return overlap, nil
}

func (r *slotRepository) HasActiveAppointments(ctx context.Context, id int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE slot_id = $1
			AND status NOT IN ('cancelled', 'completed')
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check slot appointments: %w", err)
	}
	return exists, nil
}
