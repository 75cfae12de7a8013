package model

import "time"

// Patient owns zero or more appointments. NationalID and Email are unique.
type Patient struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	NationalID   string    `db:"national_id" json:"national_id"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	BirthDate    time.Time `db:"birth_date" json:"birth_date"`
	Address      string    `db:"address" json:"address,omitempty"`
	Active       bool      `db:"active" json:"active"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

type CreatePatientRequest struct {
	FirstName  string `json:"first_name" binding:"required,max=100"`
	LastName   string `json:"last_name" binding:"required,max=100"`
	NationalID string `json:"national_id" binding:"required,max=20"`
	Email      string `json:"email" binding:"required,email,max=100"`
	Phone      string `json:"phone" binding:"max=20"`
	BirthDate  string `json:"birth_date" binding:"omitempty,dateonly"`
	Address    string `json:"address" binding:"max=200"`
}

type UpdatePatientRequest struct {
	FirstName  string `json:"first_name" binding:"required,max=100"`
	LastName   string `json:"last_name" binding:"required,max=100"`
	NationalID string `json:"national_id" binding:"required,max=20"`
	Email      string `json:"email" binding:"required,email,max=100"`
	Phone      string `json:"phone" binding:"max=20"`
	BirthDate  string `json:"birth_date" binding:"omitempty,dateonly"`
	Address    string `json:"address" binding:"max=200"`
	Active     *bool  `json:"active"`
}
