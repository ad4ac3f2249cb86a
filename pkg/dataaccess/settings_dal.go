package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/kyogre/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsDalName = "settings_dal"

// SettingsDal is the store of guild settings documents.
type SettingsDal interface {
	// GetSettings gets the settings of a guild. A missing document returns an error wrapping mongo.ErrNoDocuments.
	GetSettings(ctx context.Context, guildID string) (*entities.Settings, error)

	// ReplaceSettings replaces the whole settings document of a guild in one write.
	ReplaceSettings(ctx context.Context, settings *entities.Settings) error

	// CreateSettings stores a document with every section disabled unless the guild already has one.
	CreateSettings(ctx context.Context, guildID string) error

	// DeleteSettings removes the settings document of a guild.
	DeleteSettings(ctx context.Context, guildID string) error
}

type settingsDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewSettingsDal creates a new settings data access layer.
func NewSettingsDal(logger *slog.Logger) SettingsDal {
	l := logger.With(slog.String(logging.KeyDal, settingsDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &settingsDal{
		l:      l,
		client: MongoDB,
	}
}

func (d *settingsDal) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(settingsCollection)
}

func (d *settingsDal) failed(query string) {
	monitoring.MongoTotalErrors.WithLabelValues(settingsDalName, query, mongoDatabase, settingsCollection).Inc()
}

func (d *settingsDal) GetSettings(ctx context.Context, guildID string) (*entities.Settings, error) {
	done := monitoring.Observe(settingsDalName, "get_settings", mongoDatabase, settingsCollection)
	defer done()

	settings := new(entities.Settings)
	err := d.collection().FindOne(ctx, bson.M{"guild_id": guildID}).Decode(settings)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			d.failed("get_settings")
		}
		return nil, fmt.Errorf("error getting settings: %w", err)
	}
	return settings, nil
}

func (d *settingsDal) ReplaceSettings(ctx context.Context, settings *entities.Settings) error {
	done := monitoring.Observe(settingsDalName, "replace_settings", mongoDatabase, settingsCollection)
	defer done()

	settings.UpdatedAt = time.Now().UTC()

	// A single document replace is atomic, so two sessions committing at once never interleave.
	opts := options.Replace().SetUpsert(true)
	if _, err := d.collection().ReplaceOne(ctx, bson.M{"guild_id": settings.GuildID}, settings, opts); err != nil {
		d.failed("replace_settings")
		return fmt.Errorf("error replacing settings: %w", err)
	}

	d.l.Debug("Settings replaced", slog.String(logging.KeyGuildID, settings.GuildID))
	return nil
}

func (d *settingsDal) CreateSettings(ctx context.Context, guildID string) error {
	done := monitoring.Observe(settingsDalName, "create_settings", mongoDatabase, settingsCollection)
	defer done()

	settings := entities.NewSettings(guildID)
	settings.UpdatedAt = time.Now().UTC()

	opts := options.Update().SetUpsert(true)
	res, err := d.collection().UpdateOne(ctx, bson.M{"guild_id": guildID}, bson.M{"$setOnInsert": settings}, opts)
	if err != nil {
		d.failed("create_settings")
		return fmt.Errorf("error creating settings: %w", err)
	}

	if res.UpsertedCount > 0 {
		d.l.Info("Settings created", slog.String(logging.KeyGuildID, guildID))
	}
	return nil
}

func (d *settingsDal) DeleteSettings(ctx context.Context, guildID string) error {
	done := monitoring.Observe(settingsDalName, "delete_settings", mongoDatabase, settingsCollection)
	defer done()

	if _, err := d.collection().DeleteOne(ctx, bson.M{"guild_id": guildID}); err != nil {
		d.failed("delete_settings")
		return fmt.Errorf("error deleting settings: %w", err)
	}
	return nil
}
