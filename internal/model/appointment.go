package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Terminal reports whether no further transitions are allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCompleted
}

// Appointment books a patient against a doctor's slot. DateTime is derived
// from the slot's date plus its start time at booking.
type Appointment struct {
	ID          int64             `db:"id" json:"id"`
	PatientID   int64             `db:"patient_id" json:"patient_id"`
	DoctorID    int64             `db:"doctor_id" json:"doctor_id"`
	SpecialtyID int64             `db:"specialty_id" json:"specialty_id"`
	SlotID      *int64            `db:"slot_id" json:"slot_id,omitempty"`
	DateTime    time.Time         `db:"date_time" json:"date_time"`
	Reason      string            `db:"reason" json:"reason,omitempty"`
	Notes       string            `db:"notes" json:"notes,omitempty"`
	Status      AppointmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`

	Patient   *Patient   `db:"-" json:"patient,omitempty"`
	Doctor    *Doctor    `db:"-" json:"doctor,omitempty"`
	Specialty *Specialty `db:"-" json:"specialty,omitempty"`
	Slot      *Slot      `db:"-" json:"slot,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID   int64  `json:"patient_id" binding:"required"`
	DoctorID    int64  `json:"doctor_id" binding:"required"`
	SpecialtyID int64  `json:"specialty_id" binding:"required"`
	SlotID      int64  `json:"slot_id" binding:"required"`
	Reason      string `json:"reason" binding:"max=500"`
}

type UpdateAppointmentRequest struct {
	Reason *string            `json:"reason" binding:"omitempty,max=500"`
	Notes  *string            `json:"notes" binding:"omitempty,max=1000"`
	Status *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed cancelled completed"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type CompleteAppointmentRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}
