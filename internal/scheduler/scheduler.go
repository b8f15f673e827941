package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/srsengine/internal/service"
)

// Default notification window (hours of day, inclusive).
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// Notifier delivers review reminders. The transport behind it (chat
// bot, mail, push) is not this package's concern.
type Notifier interface {
	SendReminder(userID int64, dueCount int) error
}

// Scheduler runs the hourly due-item check and hands reminder counts
// to the notifier.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *service.ReviewService
	notifier  Notifier
	logger    *zap.Logger
	startHour int
	endHour   int
}

// New creates a scheduler instance. startHour/endHour bound the hours
// of day reminders may go out; out-of-range values fall back to the
// defaults.
func New(svc *service.ReviewService, notifier Notifier, startHour, endHour int, logger *zap.Logger) *Scheduler {
	if startHour < 0 || startHour > 23 {
		startHour = DefaultStartHour
	}
	if endHour < 0 || endHour > 23 {
		endHour = DefaultEndHour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   svc,
		notifier:  notifier,
		logger:    logger,
		startHour: startHour,
		endHour:   endHour,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders looks up users with due items and sends them reminders
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()
	if currentHour < s.startHour || currentHour > s.endHour {
		s.logger.Debug("outside notification hours, skipping reminders",
			zap.Int("hour", currentHour),
			zap.Int("start", s.startHour),
			zap.Int("end", s.endHour),
		)
		return
	}

	userIDs, err := s.service.ActiveUserIDs()
	if err != nil {
		s.logger.Error("failed to list users for reminders", zap.Error(err))
		return
	}

	for _, userID := range userIDs {
		count, err := s.service.DueSoonCount(userID, 0)
		if err != nil {
			s.logger.Error("failed to count due items",
				zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		if count == 0 {
			continue
		}
		if err := s.notifier.SendReminder(userID, count); err != nil {
			s.logger.Error("failed to send reminder",
				zap.Int64("user_id", userID), zap.Error(err))
		}
	}
}

// RunManualCheck forces a due-item check for a specific user
func (s *Scheduler) RunManualCheck(userID int64) error {
	count, err := s.service.DueSoonCount(userID, 0)
	if err != nil {
		return err
	}
	if count > 0 {
		return s.notifier.SendReminder(userID, count)
	}
	return nil
}
