package model

import "time"

// ScheduleEntry is one review session in the spaced-repetition plan.
type ScheduleEntry struct {
	SessionIndex int       `json:"session_index"`
	Date         time.Time `json:"date"`
	OffsetDays   int       `json:"offset_days"`
	Technique    string    `json:"technique"`
	Focus        string    `json:"focus_label"`
}
