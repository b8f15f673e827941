package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DBType != DefaultDBType {
		t.Errorf("DBType = %q, want %q", cfg.DBType, DefaultDBType)
	}
	if cfg.MinEase != DefaultMinEase || cfg.MaxEase != DefaultMaxEase {
		t.Errorf("ease bounds = [%v, %v], want [%v, %v]",
			cfg.MinEase, cfg.MaxEase, DefaultMinEase, DefaultMaxEase)
	}
	if cfg.NotificationStartHour != DefaultStartHour || cfg.NotificationEndHour != DefaultEndHour {
		t.Errorf("notification window = %d-%d, want %d-%d",
			cfg.NotificationStartHour, cfg.NotificationEndHour, DefaultStartHour, DefaultEndHour)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/srs")
	t.Setenv("MIN_EASE", "1.5")
	t.Setenv("MAX_EASE", "2.8")
	t.Setenv("NOTIFICATION_START_HOUR", "6")
	t.Setenv("NOTIFICATION_END_HOUR", "20")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.DBType != "postgres" || cfg.DBDSN != "postgres://localhost/srs" {
		t.Errorf("db config = %q %q", cfg.DBType, cfg.DBDSN)
	}
	if cfg.MinEase != 1.5 || cfg.MaxEase != 2.8 {
		t.Errorf("ease bounds = [%v, %v], want [1.5, 2.8]", cfg.MinEase, cfg.MaxEase)
	}
	if cfg.NotificationStartHour != 6 || cfg.NotificationEndHour != 20 {
		t.Errorf("notification window = %d-%d, want 6-20",
			cfg.NotificationStartHour, cfg.NotificationEndHour)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("MIN_EASE", "not-a-number")
	t.Setenv("MAX_EASE", "2.4")
	t.Setenv("NOTIFICATION_START_HOUR", "25")

	cfg := Load()

	if cfg.MinEase != DefaultMinEase {
		t.Errorf("MinEase = %v, want default %v", cfg.MinEase, DefaultMinEase)
	}
	if cfg.NotificationStartHour != DefaultStartHour {
		t.Errorf("NotificationStartHour = %d, want default %d",
			cfg.NotificationStartHour, DefaultStartHour)
	}
}

func TestLoadRejectsInvertedEaseBounds(t *testing.T) {
	t.Setenv("MIN_EASE", "2.9")
	t.Setenv("MAX_EASE", "1.4")

	cfg := Load()

	if cfg.MinEase != DefaultMinEase || cfg.MaxEase != DefaultMaxEase {
		t.Errorf("inverted bounds kept: [%v, %v], want defaults [%v, %v]",
			cfg.MinEase, cfg.MaxEase, DefaultMinEase, DefaultMaxEase)
	}
}
