package model

// DateOnly is the wire format for calendar dates.
const DateOnly = "2006-01-02"

// TimeOfDay is the wire format for slot start/end times.
const TimeOfDay = "15:04"
