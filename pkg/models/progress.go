package models

import "time"

// ReviewOutcome is the learner's self-assessed recall quality for one
// review event. Quality ranges 0-5: 0-2 mean the item was forgotten,
// 3-5 mean increasingly confident recall.
type ReviewOutcome struct {
	Quality int `json:"quality"`
}

// SchedulingState is the SM-2 state for one item: how many consecutive
// successful reviews it has, how many days until the next one, and the
// easiness factor driving interval growth.
type SchedulingState struct {
	Repetitions int     `json:"repetitions"`
	Interval    int     `json:"interval"`
	EaseFactor  float64 `json:"ease_factor"`
}

// UserProgress tracks a user's progress with a specific lesson using the SM-2 algorithm
type UserProgress struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	LessonID       int64      `json:"lesson_id" db:"lesson_id"`
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`         // SM-2 EF parameter
	Interval       int        `json:"interval" db:"interval"`               // Current interval in days
	Repetitions    int        `json:"repetitions" db:"repetitions"`         // Consecutive successful reviews
	MasteryLevel   int        `json:"mastery_level" db:"mastery_level"`     // Accumulated mastery tier
	LastQuality    int        `json:"last_quality" db:"last_quality"`       // 0-5 rating of last recall
	LastReviewDate *time.Time `json:"last_review_date" db:"last_review_date"`
	NextReviewDate *time.Time `json:"next_review_date" db:"next_review_date"` // nil = never scheduled
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// SchedulingState extracts the SM-2 state carried by this progress row.
func (p UserProgress) SchedulingState() SchedulingState {
	return SchedulingState{
		Repetitions: p.Repetitions,
		Interval:    p.Interval,
		EaseFactor:  p.EaseFactor,
	}
}

// RankingItem builds the value view the due-queue ranker works on.
// The next review date pointer is copied so the ranker cannot reach
// back into the progress row.
func (p UserProgress) RankingItem() ProgressItem {
	item := ProgressItem{
		LessonID:     p.LessonID,
		Interval:     p.Interval,
		EaseFactor:   p.EaseFactor,
		MasteryLevel: p.MasteryLevel,
		Repetition:   p.Repetitions,
	}
	if p.NextReviewDate != nil {
		d := *p.NextReviewDate
		item.NextReviewDate = &d
	}
	return item
}

// ProgressItem is the ranking view of one item's scheduling state.
// NextReviewDate nil means the item has never been scheduled and is
// due immediately.
type ProgressItem struct {
	LessonID       int64      `json:"lesson_id"`
	NextReviewDate *time.Time `json:"next_review_date"`
	Interval       int        `json:"interval"`
	EaseFactor     float64    `json:"ease_factor"`
	MasteryLevel   int        `json:"mastery_level"`
	Repetition     int        `json:"repetition"`
}
