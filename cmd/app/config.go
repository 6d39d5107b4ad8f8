package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"referral_bot/internal/cache"
	"referral_bot/internal/repository"
	"referral_bot/internal/repository/mongostore"
	"referral_bot/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"

	envPrefix = "APP"

	storagePostgres = "postgres"
	storageMongo    = "mongo"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Mongo    mongostore.Config `mapstructure:"mongo"`
	Redis    cache.Config      `mapstructure:"redis"`
	Server   ServerConfig      `mapstructure:"server"`
	Storage  StorageConfig     `mapstructure:"storage"`
	Telegram TelegramConfig    `mapstructure:"telegram"`
	Report   ReportConfig      `mapstructure:"report"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type TelegramConfig struct {
	BotToken            string        `mapstructure:"botToken"`
	Channel             string        `mapstructure:"channel"`
	AdminIDs            string        `mapstructure:"adminIDs"`
	BotBaseURL          string        `mapstructure:"botBaseURL"`
	Debug               bool          `mapstructure:"debug"`
	DebugAuth           bool          `mapstructure:"debugAuth"`
	UpdateTimeout       int           `mapstructure:"updateTimeout"`
	SubscriptionTimeout time.Duration `mapstructure:"subscriptionTimeout"`

	// ParsedAdminIDs is filled from AdminIDs by LoadConfig.
	ParsedAdminIDs []int64 `mapstructure:"-"`
}

type ReportConfig struct {
	Schedule string `mapstructure:"schedule"`
}

var defaults = map[string]interface{}{
	"logLevel":                     "info",
	"server.host":                  "0.0.0.0",
	"server.port":                  "8080",
	"storage.driver":               storagePostgres,
	"database.host":                "localhost",
	"database.port":                "5432",
	"database.user":                "postgres",
	"database.password":            "",
	"database.name":                "referral_bot",
	"mongo.uri":                    "mongodb://localhost:27017",
	"mongo.database":               "referral_bot",
	"mongo.collection":             "users",
	"redis.addr":                   "",
	"redis.password":               "",
	"redis.db":                     0,
	"redis.subscriptionTTL":        10 * time.Minute,
	"telegram.botToken":            "",
	"telegram.channel":             "",
	"telegram.adminIDs":            "",
	"telegram.botBaseURL":          "",
	"telegram.debug":               false,
	"telegram.debugAuth":           false,
	"telegram.updateTimeout":       60,
	"telegram.subscriptionTimeout": service.DefaultSubscriptionTimeout,
	"report.schedule":              "",
}

// envAliases keeps the plain variable names used by existing deployments.
var envAliases = map[string]string{
	"telegram.botToken": "BOT_TOKEN",
	"telegram.channel":  "CHANNEL_ID",
	"telegram.adminIDs": "ADMIN_IDS",
	"mongo.uri":         "MONGO_URI",
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	for key, alias := range envAliases {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := viper.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", alias, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.botToken (BOT_TOKEN) is required")
	}
	if c.Telegram.Channel == "" {
		return errors.New("telegram.channel (CHANNEL_ID) is required")
	}

	switch c.Storage.Driver {
	case storagePostgres, storageMongo:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}

	ids, err := service.ParseAdminIDs(c.Telegram.AdminIDs)
	if err != nil {
		return err
	}
	c.Telegram.ParsedAdminIDs = ids

	return nil
}
