package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/srsengine/pkg/models"
)

// ProgressRepository handles database operations for user progress
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByUserAndLesson returns progress for a specific user and lesson.
// Callers distinguish "no row yet" with errors.Is(err, sql.ErrNoRows).
func (r *ProgressRepository) GetByUserAndLesson(userID, lessonID int64) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := r.db.Get(&progress,
		"SELECT * FROM user_progress WHERE user_id = $1 AND lesson_id = $2",
		userID, lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}
	return &progress, nil
}

// GetAllForUser returns every progress row for a user
func (r *ProgressRepository) GetAllForUser(userID int64) ([]models.UserProgress, error) {
	var progress []models.UserProgress
	err := r.db.Select(&progress,
		"SELECT * FROM user_progress WHERE user_id = $1 ORDER BY lesson_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for user: %w", err)
	}
	return progress, nil
}

// GetDueForUser returns progress rows due for review at time now,
// including rows that have never been scheduled.
func (r *ProgressRepository) GetDueForUser(userID int64, now time.Time) ([]models.UserProgress, error) {
	var progress []models.UserProgress
	err := r.db.Select(&progress, `
		SELECT * FROM user_progress
		WHERE user_id = $1 AND (next_review_date IS NULL OR next_review_date <= $2)
		ORDER BY next_review_date ASC
	`, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due progress: %w", err)
	}
	return progress, nil
}

// ListUserIDs returns the distinct users that have progress rows
func (r *ProgressRepository) ListUserIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Select(&ids, "SELECT DISTINCT user_id FROM user_progress ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}
	return ids, nil
}

// CreateOrUpdate creates or updates a progress record keyed by
// (user_id, lesson_id)
func (r *ProgressRepository) CreateOrUpdate(progress *models.UserProgress) error {
	if r.db.DriverName() == "postgres" {
		// PostgreSQL supports ON CONFLICT with RETURNING
		query := `
			INSERT INTO user_progress (
				user_id, lesson_id, ease_factor, interval, repetitions,
				mastery_level, last_quality, last_review_date, next_review_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id, lesson_id) DO UPDATE SET
				ease_factor = EXCLUDED.ease_factor,
				interval = EXCLUDED.interval,
				repetitions = EXCLUDED.repetitions,
				mastery_level = EXCLUDED.mastery_level,
				last_quality = EXCLUDED.last_quality,
				last_review_date = EXCLUDED.last_review_date,
				next_review_date = EXCLUDED.next_review_date,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`
		return r.db.QueryRow(
			query,
			progress.UserID,
			progress.LessonID,
			progress.EaseFactor,
			progress.Interval,
			progress.Repetitions,
			progress.MasteryLevel,
			progress.LastQuality,
			progress.LastReviewDate,
			progress.NextReviewDate,
		).Scan(&progress.ID, &progress.CreatedAt, &progress.UpdatedAt)
	}

	// SQLite: check for an existing row first
	var existingID int64
	err := r.db.QueryRow(
		"SELECT id FROM user_progress WHERE user_id = $1 AND lesson_id = $2",
		progress.UserID, progress.LessonID,
	).Scan(&existingID)
	if err == nil {
		progress.ID = existingID
		return r.update(progress)
	}

	result, err := r.db.Exec(`
		INSERT INTO user_progress (
			user_id, lesson_id, ease_factor, interval, repetitions,
			mastery_level, last_quality, last_review_date, next_review_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		progress.UserID,
		progress.LessonID,
		progress.EaseFactor,
		progress.Interval,
		progress.Repetitions,
		progress.MasteryLevel,
		progress.LastQuality,
		progress.LastReviewDate,
		progress.NextReviewDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create user progress: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	progress.ID = id
	return r.db.QueryRow(
		"SELECT created_at, updated_at FROM user_progress WHERE id = $1", progress.ID,
	).Scan(&progress.CreatedAt, &progress.UpdatedAt)
}

// update modifies an existing progress record (SQLite path)
func (r *ProgressRepository) update(progress *models.UserProgress) error {
	_, err := r.db.Exec(`
		UPDATE user_progress SET
			ease_factor = $1,
			interval = $2,
			repetitions = $3,
			mastery_level = $4,
			last_quality = $5,
			last_review_date = $6,
			next_review_date = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8`,
		progress.EaseFactor,
		progress.Interval,
		progress.Repetitions,
		progress.MasteryLevel,
		progress.LastQuality,
		progress.LastReviewDate,
		progress.NextReviewDate,
		progress.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	return r.db.QueryRow(
		"SELECT updated_at FROM user_progress WHERE id = $1", progress.ID,
	).Scan(&progress.UpdatedAt)
}

// Delete removes a progress record
func (r *ProgressRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM user_progress WHERE id = $1", id)
	return err
}
