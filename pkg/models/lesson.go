package models

import "time"

// Lesson represents a unit of study material
type Lesson struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Topic      string    `json:"topic" db:"topic"`
	Difficulty int       `json:"difficulty" db:"difficulty"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
