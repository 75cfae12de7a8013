package model

import "time"

// Doctor belongs to exactly one specialty and owns slots and appointments.
type Doctor struct {
	ID            int64     `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	SpecialtyID   int64     `db:"specialty_id" json:"specialty_id"`
	LicenseNumber string    `db:"license_number" json:"license_number,omitempty"`
	Email         string    `db:"email" json:"email,omitempty"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Address       string    `db:"address" json:"address,omitempty"`
	Active        bool      `db:"active" json:"active"`
	RegisteredAt  time.Time `db:"registered_at" json:"registered_at"`

	Specialty *Specialty `db:"-" json:"specialty,omitempty"`
}

type CreateDoctorRequest struct {
	FirstName     string `json:"first_name" binding:"required,max=100"`
	LastName      string `json:"last_name" binding:"required,max=100"`
	SpecialtyID   int64  `json:"specialty_id" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email,max=100"`
	Phone         string `json:"phone" binding:"max=20"`
	Address       string `json:"address" binding:"max=200"`
}

type UpdateDoctorRequest struct {
	FirstName     string `json:"first_name" binding:"required,max=100"`
	LastName      string `json:"last_name" binding:"required,max=100"`
	SpecialtyID   int64  `json:"specialty_id" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"max=50"`
	Email         string `json:"email" binding:"omitempty,email,max=100"`
	Phone         string `json:"phone" binding:"max=20"`
	Address       string `json:"address" binding:"max=200"`
	Active        *bool  `json:"active"`
}
