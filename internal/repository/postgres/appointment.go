package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/clinicore/clinic-api/internal/model"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

const uniqueViolation = pq.ErrorCode("23505")

const appointmentColumns = `
	id, patient_id, doctor_id, specialty_id, slot_id,
	date_time, reason, notes, status, created_at, updated_at
`

// Book inserts the appointment and takes its slot in a single transaction.
// The patient row is locked first so concurrent bookings for one patient
// serialize and the same-day re-check below cannot race; the slot row lock
// then guarantees exactly one caller wins the slot.
func (r *appointmentRepository) Book(ctx context.Context, appointment *model.Appointment) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var patientID int64
		err := tx.GetContext(ctx, &patientID,
			`SELECT id FROM patients WHERE id = $1 FOR UPDATE`, appointment.PatientID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewValidation("patient does not exist or is not active", err)
		}
		if err != nil {
			return fmt.Errorf("failed to lock patient row: %w", err)
		}

		var available bool
		err = tx.GetContext(ctx, &available,
			`SELECT available FROM slots WHERE id = $1 FOR UPDATE`, *appointment.SlotID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewValidation("slot does not exist or is not available", err)
		}
		if err != nil {
			return fmt.Errorf("failed to lock slot row: %w", err)
		}
		if !available {
			return apperrors.Conflict("slot is already booked")
		}

		var taken bool
		err = tx.GetContext(ctx, &taken, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE slot_id = $1 AND status != 'cancelled'
			)
		`, *appointment.SlotID)
		if err != nil {
			return fmt.Errorf("failed to check slot appointments: %w", err)
		}
		if taken {
			return apperrors.Conflict("an appointment already exists for this slot")
		}

		var sameDay bool
		err = tx.GetContext(ctx, &sameDay, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE patient_id = $1 AND doctor_id = $2
				AND date_time::date = $3
				AND status != 'cancelled'
			)
		`, appointment.PatientID, appointment.DoctorID, dateOnly(appointment.DateTime))
		if err != nil {
			return fmt.Errorf("failed to check same-day appointments: %w", err)
		}
		if sameDay {
			return apperrors.Conflict("patient already has an appointment with this doctor on the same day")
		}

		appointment.CreatedAt = time.Now()
		appointment.UpdatedAt = appointment.CreatedAt

		query := `
			INSERT INTO appointments (
				patient_id, doctor_id, specialty_id, slot_id,
				date_time, reason, notes, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`
		err = tx.QueryRowxContext(ctx, query,
			appointment.PatientID,
			appointment.DoctorID,
			appointment.SpecialtyID,
			appointment.SlotID,
			appointment.DateTime,
			appointment.Reason,
			appointment.Notes,
			appointment.Status,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		).Scan(&appointment.ID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation &&
				pqErr.Constraint == "idx_appointments_patient_doctor_day" {
				return apperrors.NewConflict("patient already has an appointment with this doctor on the same day", err)
			}
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE slots SET available = false WHERE id = $1`, *appointment.SlotID)
		if err != nil {
			return fmt.Errorf("failed to take slot: %w", err)
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, updateAppointmentQuery,
		appointment.Reason,
		appointment.Notes,
		appointment.Status,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

const updateAppointmentQuery = `
	UPDATE appointments
	SET reason = $1, notes = $2, status = $3, updated_at = $4
	WHERE id = $5
`

func (r *appointmentRepository) UpdateAndReleaseSlot(ctx context.Context, appointment *model.Appointment) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		appointment.UpdatedAt = time.Now()

		result, err := tx.ExecContext(ctx, updateAppointmentQuery,
			appointment.Reason,
			appointment.Notes,
			appointment.Status,
			appointment.UpdatedAt,
			appointment.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update appointment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NewNotFound("appointment", nil)
		}

		if appointment.SlotID != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE slots SET available = true WHERE id = $1`, *appointment.SlotID)
			if err != nil {
				return fmt.Errorf("failed to release slot: %w", err)
			}
		}
		return nil
	})
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		ORDER BY date_time DESC
	`
	return r.selectAppointments(ctx, query)
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY date_time DESC
	`
	return r.selectAppointments(ctx, query, doctorID)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date_time DESC
	`
	return r.selectAppointments(ctx, query, patientID)
}

func (r *appointmentRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date_time::date = $1
		ORDER BY date_time ASC
	`
	return r.selectAppointments(ctx, query, dateOnly(date))
}

func (r *appointmentRepository) ListPending(ctx context.Context, now time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = 'scheduled' AND date_time >= $1
		ORDER BY date_time ASC
	`
	return r.selectAppointments(ctx, query, now)
}

func (r *appointmentRepository) ListForDay(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date_time::date = $1 AND status != 'cancelled'
		ORDER BY date_time ASC
	`
	return r.selectAppointments(ctx, query, dateOnly(date))
}

func (r *appointmentRepository) ExistsActiveForSlot(ctx context.Context, slotID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE slot_id = $1 AND status != 'cancelled'
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, slotID); err != nil {
		return false, fmt.Errorf("failed to check slot appointments: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) ExistsActiveForPatientDoctorDate(ctx context.Context, patientID, doctorID int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1 AND doctor_id = $2
			AND date_time::date = $3
			AND status != 'cancelled'
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, patientID, doctorID, dateOnly(date))
	if err != nil {
		return false, fmt.Errorf("failed to check same-day appointments: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) selectAppointments(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
