package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/securegate/admin-portal/db"
	"github.com/securegate/admin-portal/internal/appconfig"
	awsclient "github.com/securegate/admin-portal/internal/aws"
	"github.com/securegate/admin-portal/internal/events"
)

var (
	appCfg   *appconfig.Config
	portalDB *db.PortalDB
)

// commonSetUp sets the log level, loads the config and connects to the database
func commonSetUp() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dsn := appCfg.Database.Source
	if appCfg.Database.SecretName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load AWS config")
		}

		dsn, err = awsclient.ResolveDatabaseURL(ctx, awsclient.NewSecretsManagerClient(awsCfg), appCfg.Database.SecretName)
		if err != nil {
			log.Fatal().Err(err).Str("secret", appCfg.Database.SecretName).Msg("failed to resolve database secret")
		}
	}

	logger := log.Logger
	portalDB, err = db.NewPortalDB(appCfg.Database.Driver, dsn, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
}

// newNotifier returns the Pulsar publisher when a broker is configured and
// writes audit events straight to the database otherwise. The returned
// function releases the publisher.
func newNotifier() (events.Notifier, func()) {
	if appCfg.Pulsar.URL == "" || appCfg.Pulsar.TopicProducer == "" {
		log.Info().Msg("no message broker configured, audit events are written directly")
		return portalDB, func() {}
	}

	publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	return publisher, publisher.Close
}
