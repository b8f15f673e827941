package models

import "time"

// ReviewLog is one append-only record of a graded review: the quality
// the learner reported and the scheduling state that resulted.
type ReviewLog struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	LessonID   int64     `json:"lesson_id" db:"lesson_id"`
	Quality    int       `json:"quality" db:"quality"`
	Interval   int       `json:"interval" db:"interval"`
	EaseFactor float64   `json:"ease_factor" db:"ease_factor"`
	ReviewedAt time.Time `json:"reviewed_at" db:"reviewed_at"`
}
