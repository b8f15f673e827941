package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/srsengine/pkg/models"
)

// Defaults for the SM-2 scheduling state and ease-factor bounds.
const (
	DefaultMinEase    = 1.3
	DefaultMaxEase    = 2.5
	DefaultEaseFactor = 2.5
)

// SM2 implements the SuperMemo-2 algorithm for spaced repetition.
// MinEase and MaxEase bound the easiness factor after every update.
type SM2 struct {
	MinEase float64
	MaxEase float64
}

// NewSM2 creates a new SM2 instance with the default ease bounds.
func NewSM2() *SM2 {
	return &SM2{
		MinEase: DefaultMinEase,
		MaxEase: DefaultMaxEase,
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// PassThreshold is the lowest quality counted as a successful recall.
const PassThreshold = int(QualityCorrectDifficult)

// ComputeNextState runs one SM-2 step over the prior scheduling state.
//
// Quality below 3 resets the item: repetitions go to 0, the interval
// back to 1 day, and the easiness factor is left untouched. Quality 3-5
// increments repetitions; the new interval is 1 day after the first
// success, 6 days after the second, and round(interval * EF) beyond
// that, where both interval and EF are the pre-update values. The
// easiness factor then moves by 0.1 - (5-q)*(0.08+(5-q)*0.02) and is
// clamped into [MinEase, MaxEase].
//
// Zero-value prior fields take the SM-2 defaults: repetitions 0,
// interval 1, easiness factor 2.5.
//
// Precondition: quality is in [0, 5]. Out-of-range values are not
// validated; they feed the same arithmetic and produce the inherited
// degenerate result.
//
// Pure function: no clock reads, no I/O, safe for concurrent use.
func (sm *SM2) ComputeNextState(outcome models.ReviewOutcome, prior models.SchedulingState) models.SchedulingState {
	priorEase := prior.EaseFactor
	if priorEase == 0 {
		priorEase = DefaultEaseFactor
	}
	priorInterval := prior.Interval
	if priorInterval < 1 {
		priorInterval = 1
	}

	if outcome.Quality < PassThreshold {
		// Failed recall: reset repetitions and interval, keep the
		// easiness factor.
		return models.SchedulingState{
			Repetitions: 0,
			Interval:    1,
			EaseFactor:  sm.clampEase(priorEase),
		}
	}

	repetitions := prior.Repetitions + 1

	var interval int
	switch repetitions {
	case 1:
		interval = 1
	case 2:
		interval = 6
	default:
		// Interval growth uses the pre-update easiness factor.
		interval = int(math.Round(float64(priorInterval) * priorEase))
	}
	if interval < 1 {
		interval = 1
	}

	q := float64(5 - outcome.Quality)
	ease := priorEase + (0.1 - q*(0.08+q*0.02))

	return models.SchedulingState{
		Repetitions: repetitions,
		Interval:    interval,
		EaseFactor:  sm.clampEase(ease),
	}
}

// NextReviewDate derives the next review timestamp from the moment the
// review happened. Calendar-day arithmetic: adding days rolls over
// month and year boundaries instead of adding fixed 24h blocks.
func (sm *SM2) NextReviewDate(lastReview time.Time, intervalDays int) time.Time {
	return lastReview.AddDate(0, 0, intervalDays)
}

func (sm *SM2) clampEase(ease float64) float64 {
	if ease < sm.MinEase {
		return sm.MinEase
	}
	if ease > sm.MaxEase {
		return sm.MaxEase
	}
	return ease
}
