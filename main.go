package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iqrahapp/iqrah-mobile-sub001/internal/database"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/importer"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/notify"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/propagation"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/review"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/scheduler"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/session"
	"github.com/iqrahapp/iqrah-mobile-sub001/internal/spaced_repetition"
)

func main() {
	importPath := flag.String("import", "", "import content graph from a workbook or CSV directory, then exit")
	flag.Parse()

	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Connect()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store := database.NewStore(db)

	if *importPath != "" {
		result, err := importer.New(store.GraphRepository).ImportContent(context.Background(), *importPath)
		if err != nil {
			logger.Fatal("content import failed", zap.Error(err))
		}
		logger.Info("content import finished",
			zap.Int("nodes", result.Nodes),
			zap.Int("edges", result.Edges),
			zap.Int("importance", result.Importance),
			zap.Int("skipped", result.Skipped),
			zap.Strings("errors", result.Errors),
		)
		return
	}

	orchestrator := review.New(
		spaced_repetition.NewFSRS(),
		propagation.New(propagationConfig()),
		session.New(),
		session.DefaultWeights(),
		store,
		store,
		store,
		logger,
	)

	userID := os.Getenv("IQRAH_USER_ID")
	if userID == "" {
		userID = "local"
	}

	var notifier scheduler.Notifier
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			logger.Fatal("TELEGRAM_CHAT_ID must be set with TELEGRAM_BOT_TOKEN", zap.Error(err))
		}
		notifier, err = notify.NewTelegram(token, chatID)
		if err != nil {
			logger.Fatal("failed to create notifier", zap.Error(err))
		}
	}

	if notifier == nil {
		logger.Info("no notifier configured, reminder job disabled")
		waitForSignal(logger)
		return
	}

	reminders := scheduler.New(orchestrator, notifier, userID, logger)
	reminders.Start()
	defer reminders.Stop()

	logger.Info("reminder daemon started", zap.String("user_id", userID))
	waitForSignal(logger)
}

func waitForSignal(logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

func propagationConfig() propagation.Config {
	cfg := propagation.DefaultConfig()
	if v := os.Getenv("PROPAGATION_MIN_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.MinThreshold = f
		}
	}
	if v := os.Getenv("PROPAGATION_MAX_VISITED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxVisited = n
		}
	}
	return cfg
}
