// main.go
package main

import (
	"log"

	"hotel-booking/cmd"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/wire"
	"hotel-booking/pkg/database"
	"hotel-booking/pkg/notify"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Payment provider client
	provider := payment.NewClient(
		config.Payment.APIKey,
		config.Payment.WebhookSecret,
		config.Payment.BaseURL,
		config.Payment.Timeout,
	)

	// Notifications go to the broker when one is configured, otherwise
	// to the log.
	var notifier notify.Notifier
	if config.AMQP.URL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(config.AMQP.URL, config.AMQP.Exchange)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	} else {
		logger.Warn("AMQP_URL not set, notifications will only be logged")
		notifier = notify.NewLogNotifier(logger)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, provider, notifier, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
