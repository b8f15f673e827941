package service

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/srsengine/internal/database"
	"github.com/example/srsengine/internal/spaced_repetition"
	"github.com/example/srsengine/pkg/models"
)

func newTestService(t *testing.T, now time.Time) (*ReviewService, *database.ProgressRepository) {
	t.Helper()

	db, err := database.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := NewReviewService(db, spaced_repetition.NewSM2(), zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc, database.NewProgressRepository(db)
}

func TestRecordReviewFirstReview(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	progress, err := svc.RecordReview(1, 10, 5)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}

	if progress.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", progress.Repetitions)
	}
	if progress.Interval != 1 {
		t.Errorf("Interval = %d, want 1", progress.Interval)
	}
	if progress.EaseFactor != 2.5 {
		t.Errorf("EaseFactor = %v, want 2.5 (capped)", progress.EaseFactor)
	}
	if progress.NextReviewDate == nil {
		t.Fatal("NextReviewDate not set")
	}
	want := now.AddDate(0, 0, 1)
	if !progress.NextReviewDate.Equal(want) {
		t.Errorf("NextReviewDate = %v, want %v", progress.NextReviewDate, want)
	}
}

func TestRecordReviewProgression(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	// Two successes walk the early ladder, a failure resets it.
	steps := []struct {
		quality      string
		q            int
		wantInterval int
		wantReps     int
	}{
		{"first success", 4, 1, 1},
		{"second success", 4, 6, 2},
		{"failure", 1, 1, 0},
		{"success after reset", 4, 1, 1},
	}

	for _, step := range steps {
		progress, err := svc.RecordReview(1, 10, step.q)
		if err != nil {
			t.Fatalf("%s: %v", step.quality, err)
		}
		if progress.Interval != step.wantInterval {
			t.Errorf("%s: Interval = %d, want %d", step.quality, progress.Interval, step.wantInterval)
		}
		if progress.Repetitions != step.wantReps {
			t.Errorf("%s: Repetitions = %d, want %d", step.quality, progress.Repetitions, step.wantReps)
		}
	}

	history, err := svc.RecentHistory(1, 10)
	if err != nil {
		t.Fatalf("RecentHistory: %v", err)
	}
	if len(history) != len(steps) {
		t.Errorf("history has %d entries, want %d", len(history), len(steps))
	}
}

func TestRecordReviewRejectsOutOfRangeQuality(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	for _, q := range []int{-1, 6, 42} {
		if _, err := svc.RecordReview(1, 10, q); err == nil {
			t.Errorf("quality %d: expected error", q)
		}
	}
}

func TestNextQueueRanksDueItems(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)

	overdue := now.AddDate(0, 0, -4)
	today := now
	future := now.AddDate(0, 0, 5)

	seed := []models.UserProgress{
		{UserID: 1, LessonID: 1, EaseFactor: 2.5, Interval: 6, Repetitions: 3, NextReviewDate: &today}, // 100
		{UserID: 1, LessonID: 2, EaseFactor: 1.5, Repetitions: 0}, // 170, never scheduled
		{UserID: 1, LessonID: 3, EaseFactor: 2.5, Interval: 6, Repetitions: 2, NextReviewDate: &overdue}, // 120
		{UserID: 1, LessonID: 4, EaseFactor: 2.5, Interval: 30, Repetitions: 6, NextReviewDate: &future}, // not due
		{UserID: 2, LessonID: 1, EaseFactor: 1.4, Repetitions: 0}, // other user
	}
	for i := range seed {
		if err := repo.CreateOrUpdate(&seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	queue, err := svc.NextQueue(1, 0)
	if err != nil {
		t.Fatalf("NextQueue: %v", err)
	}

	wantOrder := []int64{2, 3, 1}
	if len(queue) != len(wantOrder) {
		t.Fatalf("queue has %d items, want %d", len(queue), len(wantOrder))
	}
	for i, want := range wantOrder {
		if queue[i].LessonID != want {
			t.Errorf("position %d: lesson %d, want %d", i, queue[i].LessonID, want)
		}
	}

	limited, err := svc.NextQueue(1, 2)
	if err != nil {
		t.Fatalf("NextQueue limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited queue has %d items, want 2", len(limited))
	}
}

func TestNextQueueEmptyForUnknownUser(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)

	queue, err := svc.NextQueue(99, 10)
	if err != nil {
		t.Fatalf("NextQueue: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("queue has %d items, want 0", len(queue))
	}
}

func TestDueSoonCount(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)

	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)

	seed := []models.UserProgress{
		{UserID: 1, LessonID: 1, EaseFactor: 2.5, Repetitions: 0}, // due now
		{UserID: 1, LessonID: 2, EaseFactor: 2.5, Interval: 1, Repetitions: 1, NextReviewDate: &tomorrow}, // due tomorrow
		{UserID: 1, LessonID: 3, EaseFactor: 2.5, Interval: 7, Repetitions: 2, NextReviewDate: &nextWeek}, // next week
	}
	for i := range seed {
		if err := repo.CreateOrUpdate(&seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	tests := []struct {
		daysAhead int
		want      int
	}{
		{0, 1},
		{1, 2},
		{7, 3},
	}
	for _, tt := range tests {
		got, err := svc.DueSoonCount(1, tt.daysAhead)
		if err != nil {
			t.Fatalf("DueSoonCount(%d): %v", tt.daysAhead, err)
		}
		if got != tt.want {
			t.Errorf("DueSoonCount(%d) = %d, want %d", tt.daysAhead, got, tt.want)
		}
	}
}

func TestMasteryAdvancesOnConfidentMatureRecall(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)

	// A long-interval item on its fifth consecutive success.
	prior := models.UserProgress{
		UserID: 1, LessonID: 10,
		EaseFactor: 2.5, Interval: 15, Repetitions: 4,
	}
	if err := repo.CreateOrUpdate(&prior); err != nil {
		t.Fatalf("seed: %v", err)
	}

	progress, err := svc.RecordReview(1, 10, 5)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	// round(15 x 2.5) = 38 >= 30, repetitions 5, quality 5.
	if progress.MasteryLevel != 1 {
		t.Errorf("MasteryLevel = %d, want 1", progress.MasteryLevel)
	}

	// A failure never advances mastery.
	progress, err = svc.RecordReview(1, 10, 0)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if progress.MasteryLevel != 1 {
		t.Errorf("MasteryLevel after failure = %d, want unchanged 1", progress.MasteryLevel)
	}
}
