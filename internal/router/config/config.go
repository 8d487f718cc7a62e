package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	AppEnv           string        `mapstructure:"APP_ENV"`
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn     string        `mapstructure:"POSTGRES_CONN"`
	PostgresMaxConns int32         `mapstructure:"POSTGRES_MAX_CONNS"`
	MigrationURL     string        `mapstructure:"MIGRATION_URL"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	UploadDir        string        `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes   int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	TimeZone         string        `mapstructure:"TIME_ZONE"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"APP_ENV":            "development",
	"SERVER_ADDRESS":     "0.0.0.0:8080",
	"POSTGRES_CONN":      "",
	"POSTGRES_MAX_CONNS": 10,
	"MIGRATION_URL":      "file://migrations",
	"REDIS_ADDR":         "localhost:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"SESSION_TTL":        "24h",
	"UPLOAD_DIR":         "uploads",
	"MAX_UPLOAD_BYTES":   10 << 20,
	"TIME_ZONE":          "Asia/Taipei",
	"REQUEST_TIMEOUT":    "5s",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "console",
}

// LoadConfig загружает конфигурацию из файла app.env в каталоге path и переменных окружения.
// Отсутствие файла не является ошибкой.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	err = cfg.Validate()
	return
}

// Validate проверяет обязательные параметры.
func (c Config) Validate() error {
	if c.ServerAddress == "" {
		return errors.New("SERVER_ADDRESS is required")
	}
	if c.PostgresConn == "" {
		return errors.New("POSTGRES_CONN is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.UploadDir == "" {
		return errors.New("UPLOAD_DIR is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location возвращает часовой пояс, в котором сравниваются сроки проектов.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
