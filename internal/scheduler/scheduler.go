package scheduler

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Default reminder window (local hours). Outside of it no reminders are
// sent even if items are due.
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 21
)

// DueChecker reports how many items a user has due.
type DueChecker interface {
	DueCount(ctx context.Context, userID string, now time.Time) (int, error)
}

// Notifier delivers a due-items reminder to the user.
type Notifier interface {
	SendReminder(userID string, dueCount int) error
}

// Scheduler runs the periodic due-item check for the device's user and
// pings the notifier when there is something to review.
type Scheduler struct {
	scheduler *gocron.Scheduler
	checker   DueChecker
	notifier  Notifier
	userID    string
	logger    *zap.Logger
}

// New creates a scheduler instance.
func New(checker DueChecker, notifier Notifier, userID string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		checker:   checker,
		notifier:  notifier,
		userID:    userID,
		logger:    logger,
	}
}

// Start begins running the hourly due check without blocking.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndRemind)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) checkAndRemind() {
	currentHour := time.Now().Hour()

	startHour := hourFromEnv("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := hourFromEnv("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		s.logger.Debug("outside notification hours, skipping reminder",
			zap.Int("hour", currentHour),
			zap.Int("start", startHour),
			zap.Int("end", endHour),
		)
		return
	}

	if err := s.RunManualCheck(s.userID); err != nil {
		s.logger.Error("due check failed", zap.String("user_id", s.userID), zap.Error(err))
	}
}

// RunManualCheck forces a due check for the given user and sends a
// reminder if anything is due.
func (s *Scheduler) RunManualCheck(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.checker.DueCount(ctx, userID, time.Now())
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return s.notifier.SendReminder(userID, count)
}

func hourFromEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
