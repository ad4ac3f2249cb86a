package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/request"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeSettingsGetter struct {
	docs map[string]*entities.Settings
	err  error
}

func (f *fakeSettingsGetter) GetSettings(_ context.Context, guildID string) (*entities.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[guildID]
	if !ok {
		return nil, fmt.Errorf("error getting settings: %w", mongo.ErrNoDocuments)
	}
	return doc, nil
}

func TestSettingsHandler(t *testing.T) {
	doc := entities.NewSettings("123")
	doc.Counters = entities.CountersConfig{Enabled: true, AutoLevels: []string{"5", "EX"}}

	tests := []struct {
		name       string
		store      *fakeSettingsGetter
		path       string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "found",
			store:      &fakeSettingsGetter{docs: map[string]*entities.Settings{"123": doc}},
			path:       "/guilds/123/settings",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				got := new(entities.Settings)
				require.NoError(t, json.Unmarshal(body, got))
				require.Equal(t, "123", got.GuildID)
				require.True(t, got.Counters.Enabled)
				require.Equal(t, []string{"5", "EX"}, got.Counters.AutoLevels)
			},
		},
		{
			name:       "missing",
			store:      &fakeSettingsGetter{},
			path:       "/guilds/456/settings",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				msg := new(request.Message)
				require.NoError(t, json.Unmarshal(body, msg))
				require.Equal(t, "No settings found for guild 456", msg.Message)
			},
		},
		{
			name:       "store error",
			store:      &fakeSettingsGetter{err: errors.New("connection refused")},
			path:       "/guilds/123/settings",
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				require.NotContains(t, string(body), "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := slog.New(slog.NewTextHandler(io.Discard, nil))
			r := mux.NewRouter()
			r.HandleFunc(PathGuildSettings, middlewareHttp(l, settingsHandler(l, tt.store))).Methods(http.MethodGet)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			tt.check(t, rec.Body.Bytes())
		})
	}
}

func TestMiddlewareHttp_RecoversPanics(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := middlewareHttp(l, func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	const path = "/panics"
	before := testutil.ToFloat64(HttpTotalRequests.WithLabelValues(path, http.MethodGet, "500"))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, path, nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	msg := new(request.Message)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), msg))
	require.Equal(t, request.ErrInternalServer.Error(), msg.Message)

	// The request is counted with the status the client received.
	require.Equal(t, before+1, testutil.ToFloat64(HttpTotalRequests.WithLabelValues(path, http.MethodGet, "500")))
	require.Zero(t, testutil.ToFloat64(HttpTotalRequests.WithLabelValues(path, http.MethodGet, "200")))
}
