package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Jacobbrewer1/kyogre/pkg/dataaccess"
	"github.com/Jacobbrewer1/kyogre/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/kyogre/pkg/prompt"
)

const (
	// AppName is the name of the application.
	AppName = "kyogre"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvPromptTimeout is the environment variable for how long a prompt waits for a reply.
	EnvPromptTimeout = `PROMPT_TIMEOUT`

	// EnvPromptInterval is the environment variable for the minimum gap between two prompts.
	EnvPromptInterval = `PROMPT_INTERVAL`

	defaultMonitoringPort = "8080"
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// PromptOptions configures the configuration sessions.
	PromptOptions = prompt.DefaultOptions
)

var errIncompleteConfig = errors.New("not all required environment variables have been provided")

func parseConfig(l *slog.Logger) error {
	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envMongoUri := os.Getenv(EnvMongoUri); envMongoUri != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		MongoUri = envMongoUri
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		MonitoringPort = defaultMonitoringPort
		l.Info("No monitoring port provided in environment, defaulting to "+defaultMonitoringPort, slog.String("key", EnvMonitoringPort))
	}

	var err error
	if PromptOptions.Timeout, err = durationFromEnv(EnvPromptTimeout, PromptOptions.Timeout); err != nil {
		return err
	}
	if PromptOptions.Interval, err = durationFromEnv(EnvPromptInterval, PromptOptions.Interval); err != nil {
		return err
	}

	if BotToken == "" || ApplicationId == "" || MongoUri == "" {
		return errIncompleteConfig
	}

	l.Debug("All required environment variables have been provided")
	return nil
}

// durationFromEnv parses a duration such as "10m" from the environment, returning def when unset.
func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	} else if d < 0 {
		return 0, fmt.Errorf("invalid %s: %s is negative", key, v)
	}
	return d, nil
}

func connectMongo(ctx context.Context, l *slog.Logger) error {
	mongoConn := &connection.MongoDB{
		ConnectionString: MongoUri,
	}

	db, err := mongoConn.Connect(ctx)
	if err != nil {
		return fmt.Errorf("error connecting to mongo: %w", err)
	}

	dataaccess.MongoDB = db
	l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))
	return nil
}
