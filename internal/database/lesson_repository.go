package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/srsengine/pkg/models"
)

// LessonRepository handles database operations for lessons
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new repository instance
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// GetAll returns all lessons
func (r *LessonRepository) GetAll() ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.Select(&lessons, "SELECT * FROM lessons ORDER BY topic, title")
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	return lessons, nil
}

// GetByID returns a lesson by ID
func (r *LessonRepository) GetByID(id int64) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.Get(&lesson, "SELECT * FROM lessons WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by ID: %w", err)
	}
	return &lesson, nil
}

// GetByTopic returns lessons for a specific topic
func (r *LessonRepository) GetByTopic(topic string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.Select(&lessons, "SELECT * FROM lessons WHERE topic = $1 ORDER BY title", topic)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons by topic: %w", err)
	}
	return lessons, nil
}

// GetByTitleAndTopic returns a lesson matched by its natural key, or
// nil when no such lesson exists.
func (r *LessonRepository) GetByTitleAndTopic(title, topic string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.Get(&lesson, "SELECT * FROM lessons WHERE title = $1 AND topic = $2", title, topic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by title: %w", err)
	}
	return &lesson, nil
}

// Create inserts a new lesson
func (r *LessonRepository) Create(lesson *models.Lesson) error {
	if r.db.DriverName() == "postgres" {
		query := `
			INSERT INTO lessons (title, topic, difficulty)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`
		return r.db.QueryRow(query, lesson.Title, lesson.Topic, lesson.Difficulty).
			Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	}

	// SQLite path without RETURNING
	result, err := r.db.Exec(
		"INSERT INTO lessons (title, topic, difficulty) VALUES ($1, $2, $3)",
		lesson.Title, lesson.Topic, lesson.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	lesson.ID = id
	return r.db.QueryRow("SELECT created_at, updated_at FROM lessons WHERE id = $1", lesson.ID).
		Scan(&lesson.CreatedAt, &lesson.UpdatedAt)
}

// Update modifies an existing lesson
func (r *LessonRepository) Update(lesson *models.Lesson) error {
	_, err := r.db.Exec(`
		UPDATE lessons SET
			title = $1,
			topic = $2,
			difficulty = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`,
		lesson.Title, lesson.Topic, lesson.Difficulty, lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	return nil
}

// Delete removes a lesson
func (r *LessonRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM lessons WHERE id = $1", id)
	return err
}
