package spaced_repetition

import (
	"sort"
	"time"

	"github.com/example/srsengine/pkg/models"
)

// Priority score weights. An ordinary due item scores the base; the
// bonuses and the mastery penalty move it from there.
const (
	scoreBase           = 100.0
	scorePerOverdueDay  = 5.0
	scoreLowEaseBonus   = 20.0
	scoreNewItemBonus   = 50.0
	scoreMasteryPenalty = 10.0

	lowEaseThreshold   = 2.0
	masteryScoreCutoff = 4
)

// dueBy reports whether an item needs review at or before the deadline.
// An item with no next review date (or a zero one) has never been
// scheduled and is always due.
func dueBy(item models.ProgressItem, deadline time.Time) bool {
	if item.NextReviewDate == nil || item.NextReviewDate.IsZero() {
		return true
	}
	return !item.NextReviewDate.After(deadline)
}

// FilterDue returns the items due for review at time now: items that
// have never been scheduled, plus items whose next review date has
// arrived or passed. The result is a new slice; the items themselves
// are value copies. A nil items slice returns ErrInvalidInput.
func FilterDue(items []models.ProgressItem, now time.Time) ([]models.ProgressItem, error) {
	if items == nil {
		return nil, ErrInvalidInput
	}

	due := make([]models.ProgressItem, 0, len(items))
	for _, item := range items {
		if dueBy(item, now) {
			due = append(due, item)
		}
	}
	return due, nil
}

// PriorityScore computes the review urgency of one item at time now.
//
//	base 100
//	+5 per day overdue (nothing for never-scheduled items)
//	+20 when the easiness factor is below 2.0 (hard items surface sooner)
//	-10 per mastery level past 3 (well-learned items step back)
//	+50 for brand-new items (repetition 0)
//
// The score never goes below zero.
func PriorityScore(item models.ProgressItem, now time.Time) float64 {
	score := scoreBase

	if item.NextReviewDate != nil && !item.NextReviewDate.IsZero() {
		overdueDays := now.Sub(*item.NextReviewDate).Hours() / 24
		if overdueDays > 0 {
			score += overdueDays * scorePerOverdueDay
		}
	}

	if item.EaseFactor < lowEaseThreshold {
		score += scoreLowEaseBonus
	}

	if item.MasteryLevel >= masteryScoreCutoff {
		score -= scoreMasteryPenalty * float64(item.MasteryLevel-(masteryScoreCutoff-1))
	}

	if item.Repetition == 0 {
		score += scoreNewItemBonus
	}

	if score < 0 {
		score = 0
	}
	return score
}

// RankByPriority orders items by descending priority score. Equal
// scores are broken by ascending lesson ID so the ordering is fully
// deterministic. The input is never mutated; the result is an
// independent slice of value copies. A nil items slice returns
// ErrInvalidInput.
func RankByPriority(items []models.ProgressItem, now time.Time) ([]models.ProgressItem, error) {
	if items == nil {
		return nil, ErrInvalidInput
	}

	type scored struct {
		item  models.ProgressItem
		score float64
	}

	ranked := make([]scored, len(items))
	for i, item := range items {
		ranked[i] = scored{item: item, score: PriorityScore(item, now)}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].item.LessonID < ranked[j].item.LessonID
	})

	out := make([]models.ProgressItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out, nil
}

// CountDueWithin counts the items due now or within the next daysAhead
// calendar days, inclusive. daysAhead 0 counts only what is already
// due. A nil items slice returns ErrInvalidInput.
func CountDueWithin(items []models.ProgressItem, daysAhead int, now time.Time) (int, error) {
	if items == nil {
		return 0, ErrInvalidInput
	}

	deadline := now.AddDate(0, 0, daysAhead)
	count := 0
	for _, item := range items {
		if dueBy(item, deadline) {
			count++
		}
	}
	return count, nil
}
