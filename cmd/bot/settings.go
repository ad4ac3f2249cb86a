package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
	"github.com/Jacobbrewer1/kyogre/pkg/request"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// PathGuildSettings is the path for the committed settings of a guild.
	PathGuildSettings = "/guilds/{guild_id}/settings"
)

type settingsGetter interface {
	GetSettings(ctx context.Context, guildID string) (*entities.Settings, error)
}

// settingsHandler serves the committed settings document of a guild as JSON.
func settingsHandler(l *slog.Logger, store settingsGetter) Controller {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := mux.Vars(r)["guild_id"]
		if guildID == "" {
			request.WriteJSON(l, w, http.StatusBadRequest, request.NewMessage(request.ErrMissingGuildID.Error()))
			return
		}

		settings, err := store.GetSettings(r.Context(), guildID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			request.WriteJSON(l, w, http.StatusNotFound, request.NewMessage("No settings found for guild %s", guildID))
			return
		} else if err != nil {
			l.Error("Error getting settings",
				slog.String(logging.KeyGuildID, guildID),
				slog.String(logging.KeyError, err.Error()),
			)
			request.WriteJSON(l, w, http.StatusInternalServerError, request.NewMessage(request.ErrInternalServer.Error()))
			return
		}

		request.WriteJSON(l, w, http.StatusOK, settings)
	}
}
