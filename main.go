package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/srsengine/internal/config"
	"github.com/example/srsengine/internal/database"
	"github.com/example/srsengine/internal/excel"
	"github.com/example/srsengine/internal/scheduler"
	"github.com/example/srsengine/internal/service"
	"github.com/example/srsengine/internal/spaced_repetition"
	"github.com/example/srsengine/pkg/logger"
)

// logNotifier reports reminders to the log. Swap in a real transport
// (mail, push, chat) by providing another scheduler.Notifier.
type logNotifier struct {
	logger *zap.Logger
}

func (n *logNotifier) SendReminder(userID int64, dueCount int) error {
	n.logger.Info("review reminder",
		zap.Int64("user_id", userID),
		zap.Int("due_count", dueCount),
	)
	return nil
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	db, err := database.Connect(cfg.DBType, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sm2 := spaced_repetition.NewSM2()
	sm2.MinEase = cfg.MinEase
	sm2.MaxEase = cfg.MaxEase

	svc := service.NewReviewService(db, sm2, log)

	// Optional one-shot fixture import at startup.
	if path := os.Getenv("IMPORT_FILE"); path != "" {
		importer := excel.NewImporter(
			database.NewLessonRepository(db),
			database.NewProgressRepository(db),
		)
		importConfig := excel.DefaultImportConfig()
		importConfig.FilePath = path
		result, err := importer.ImportLessons(importConfig)
		if err != nil {
			log.Fatal("fixture import failed", zap.Error(err))
		}
		log.Info("fixture import finished",
			zap.Int("processed", result.TotalProcessed),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
			zap.Int("skipped", result.Skipped),
			zap.Int("errors", len(result.Errors)),
		)
	}

	sched := scheduler.New(svc, &logNotifier{logger: log},
		cfg.NotificationStartHour, cfg.NotificationEndHour, log)
	sched.Start()
	defer sched.Stop()

	log.Info("scheduling engine started",
		zap.String("db_type", cfg.DBType),
		zap.Float64("min_ease", cfg.MinEase),
		zap.Float64("max_ease", cfg.MaxEase),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("shutting down", zap.String("signal", sig.String()))
}
