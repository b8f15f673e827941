package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/srsengine/pkg/models"
)

// ReviewLogRepository handles the append-only review history
type ReviewLogRepository struct {
	db *sqlx.DB
}

// NewReviewLogRepository creates a new repository instance
func NewReviewLogRepository(db *sqlx.DB) *ReviewLogRepository {
	return &ReviewLogRepository{db: db}
}

// Create appends one review record
func (r *ReviewLogRepository) Create(entry *models.ReviewLog) error {
	if r.db.DriverName() == "postgres" {
		query := `
			INSERT INTO review_log (user_id, lesson_id, quality, interval, ease_factor, reviewed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		return r.db.QueryRow(
			query,
			entry.UserID, entry.LessonID, entry.Quality,
			entry.Interval, entry.EaseFactor, entry.ReviewedAt,
		).Scan(&entry.ID)
	}

	result, err := r.db.Exec(`
		INSERT INTO review_log (user_id, lesson_id, quality, interval, ease_factor, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.UserID, entry.LessonID, entry.Quality,
		entry.Interval, entry.EaseFactor, entry.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review log entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// GetRecentForUser returns the most recent review records for a user
func (r *ReviewLogRepository) GetRecentForUser(userID int64, limit int) ([]models.ReviewLog, error) {
	var entries []models.ReviewLog
	err := r.db.Select(&entries, `
		SELECT * FROM review_log
		WHERE user_id = $1
		ORDER BY reviewed_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent reviews: %w", err)
	}
	return entries, nil
}

// CountSince counts a user's reviews at or after the given time
func (r *ReviewLogRepository) CountSince(userID int64, since time.Time) (int, error) {
	var count int
	err := r.db.Get(&count,
		"SELECT COUNT(*) FROM review_log WHERE user_id = $1 AND reviewed_at >= $2",
		userID, since,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
