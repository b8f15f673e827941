package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/srsengine/internal/database"
	"github.com/example/srsengine/internal/spaced_repetition"
	"github.com/example/srsengine/pkg/models"
)

// Mastery advancement thresholds. A lesson climbs one mastery tier
// when a confident recall lands on an already long-interval item.
const (
	masteryMinRepetitions = 5
	masteryMinQuality     = int(spaced_repetition.QualityCorrectHesitation)
	masteryMinInterval    = 30
)

// ReviewService is the lesson orchestration layer: it grades reviews
// through the SM-2 calculator, persists the resulting state, keeps the
// review history, and builds the ranked due queue.
//
// The service serializes nothing itself: concurrent reviews of the
// same (user, lesson) pair are a read-modify-write race the caller
// must serialize per item.
type ReviewService struct {
	progress *database.ProgressRepository
	history  *database.ReviewLogRepository
	sm2      *spaced_repetition.SM2
	logger   *zap.Logger
	now      func() time.Time
}

// NewReviewService creates a service over the given database handle.
func NewReviewService(db *sqlx.DB, sm2 *spaced_repetition.SM2, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		progress: database.NewProgressRepository(db),
		history:  database.NewReviewLogRepository(db),
		sm2:      sm2,
		logger:   logger,
		now:      time.Now,
	}
}

// RecordReview grades one review outcome for a user's lesson, persists
// the updated scheduling state and appends it to the review history.
// A lesson reviewed for the first time starts from the SM-2 defaults.
// Quality must be in [0, 5]; the service validates it here because the
// calculator deliberately does not.
func (s *ReviewService) RecordReview(userID, lessonID int64, quality int) (*models.UserProgress, error) {
	if quality < 0 || quality > 5 {
		return nil, fmt.Errorf("quality %d out of range [0, 5]", quality)
	}

	progress, err := s.progress.GetByUserAndLesson(userID, lessonID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		progress = &models.UserProgress{UserID: userID, LessonID: lessonID}
	}

	next := s.sm2.ComputeNextState(
		models.ReviewOutcome{Quality: quality},
		progress.SchedulingState(),
	)

	reviewedAt := s.now()
	nextReview := s.sm2.NextReviewDate(reviewedAt, next.Interval)

	progress.EaseFactor = next.EaseFactor
	progress.Interval = next.Interval
	progress.Repetitions = next.Repetitions
	progress.LastQuality = quality
	progress.LastReviewDate = &reviewedAt
	progress.NextReviewDate = &nextReview

	if quality >= masteryMinQuality &&
		next.Repetitions >= masteryMinRepetitions &&
		next.Interval >= masteryMinInterval {
		progress.MasteryLevel++
	}

	if err := s.progress.CreateOrUpdate(progress); err != nil {
		return nil, err
	}

	entry := &models.ReviewLog{
		UserID:     userID,
		LessonID:   lessonID,
		Quality:    quality,
		Interval:   next.Interval,
		EaseFactor: next.EaseFactor,
		ReviewedAt: reviewedAt,
	}
	if err := s.history.Create(entry); err != nil {
		return nil, err
	}

	s.logger.Debug("recorded review",
		zap.Int64("user_id", userID),
		zap.Int64("lesson_id", lessonID),
		zap.Int("quality", quality),
		zap.Int("interval", next.Interval),
		zap.Float64("ease_factor", next.EaseFactor),
	)
	return progress, nil
}

// NextQueue builds the prioritized review queue for a user: all due
// items ranked by urgency, truncated to limit. A limit <= 0 returns
// the whole due list.
func (s *ReviewService) NextQueue(userID int64, limit int) ([]models.ProgressItem, error) {
	rows, err := s.progress.GetAllForUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.ProgressItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.RankingItem())
	}

	due, err := spaced_repetition.FilterDue(items, s.now())
	if err != nil {
		return nil, err
	}
	ranked, err := spaced_repetition.RankByPriority(due, s.now())
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// DueSoonCount returns how many of the user's items are due now or
// within the next daysAhead calendar days.
func (s *ReviewService) DueSoonCount(userID int64, daysAhead int) (int, error) {
	rows, err := s.progress.GetAllForUser(userID)
	if err != nil {
		return 0, err
	}

	items := make([]models.ProgressItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.RankingItem())
	}
	return spaced_repetition.CountDueWithin(items, daysAhead, s.now())
}

// RecentHistory returns a user's most recent review records.
func (s *ReviewService) RecentHistory(userID int64, limit int) ([]models.ReviewLog, error) {
	return s.history.GetRecentForUser(userID, limit)
}

// ActiveUserIDs lists users that have at least one progress row.
func (s *ReviewService) ActiveUserIDs() ([]int64, error) {
	return s.progress.ListUserIDs()
}
