package model

import "time"

// Slot is a doctor-specific bookable time window on a calendar date.
// StartTime and EndTime are zero-padded "HH:MM" strings so interval
// comparisons stay lexicographic both in Go and in SQL.
type Slot struct {
	ID        int64     `db:"id" json:"id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Doctor *Doctor `db:"-" json:"doctor,omitempty"`
}

// StartDateTime combines the slot date with its start time of day.
func (s *Slot) StartDateTime() time.Time {
	t, err := time.Parse(TimeOfDay, s.StartTime)
	if err != nil {
		return s.Date
	}
	return time.Date(
		s.Date.Year(), s.Date.Month(), s.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, s.Date.Location(),
	)
}

type CreateSlotRequest struct {
	DoctorID  int64  `json:"doctor_id" binding:"required"`
	Date      string `json:"date" binding:"required,dateonly"`
	StartTime string `json:"start_time" binding:"required,timehhmm"`
	EndTime   string `json:"end_time" binding:"required,timehhmm"`
}

type UpdateSlotRequest struct {
	Date      string `json:"date" binding:"required,dateonly"`
	StartTime string `json:"start_time" binding:"required,timehhmm"`
	EndTime   string `json:"end_time" binding:"required,timehhmm"`
	Available *bool  `json:"available" binding:"required"`
}

type CreateRecurringSlotsRequest struct {
	DoctorID  int64  `json:"doctor_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required,dateonly"`
	EndDate   string `json:"end_date" binding:"required,dateonly"`
	StartTime string `json:"start_time" binding:"required,timehhmm"`
	EndTime   string `json:"end_time" binding:"required,timehhmm"`
	// Weekdays uses 0=Sunday .. 6=Saturday.
	Weekdays []int `json:"weekdays" binding:"required,min=1,dive,gte=0,lte=6"`
}
