package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"referral_bot/internal/service"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "@news")
}

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("ADMIN_IDS", "10, 20")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "@news", cfg.Telegram.Channel)
	assert.Equal(t, []int64{10, 20}, cfg.Telegram.ParsedAdminIDs)
	assert.Equal(t, storagePostgres, cfg.Storage.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60, cfg.Telegram.UpdateTimeout)
	assert.Equal(t, service.DefaultSubscriptionTimeout, cfg.Telegram.SubscriptionTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Redis.SubscriptionTTL)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadConfig_PrefixedEnv(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("APP_STORAGE_DRIVER", "mongo")
	t.Setenv("APP_REDIS_ADDR", "localhost:6379")
	t.Setenv("APP_TELEGRAM_SUBSCRIPTIONTIMEOUT", "2s")
	t.Setenv("MONGO_URI", "mongodb://db:27017")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, storageMongo, cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Second, cfg.Telegram.SubscriptionTimeout)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing token",
			env:  map[string]string{"CHANNEL_ID": "@news"},
		},
		{
			name: "missing channel",
			env:  map[string]string{"BOT_TOKEN": "123:abc"},
		},
		{
			name: "invalid admin id",
			env:  map[string]string{"BOT_TOKEN": "123:abc", "CHANNEL_ID": "@news", "ADMIN_IDS": "10,abc"},
		},
		{
			name: "unknown storage driver",
			env:  map[string]string{"BOT_TOKEN": "123:abc", "CHANNEL_ID": "@news", "APP_STORAGE_DRIVER": "sqlite"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("BOT_TOKEN", "")
			t.Setenv("CHANNEL_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()

			assert.Error(t, err)
		})
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newRouter()

	for _, path := range []string{"/healthz", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
