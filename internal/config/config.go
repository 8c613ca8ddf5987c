package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // timezone database for minimal containers

	"alcyxob/trainer-desk/internal/availability"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server       ServerConfig        `mapstructure:"server"`
	Database     DatabaseConfig      `mapstructure:"database"`
	S3           S3Config            `mapstructure:"s3"`
	JWT          JWTConfig           `mapstructure:"jwt"`
	Log          LogConfig           `mapstructure:"log"`
	App          AppConfig           `mapstructure:"app"`
	Clients      ClientsConfig       `mapstructure:"clients"`
	Availability availability.Config `mapstructure:"availability"`
	Reminders    RemindersConfig     `mapstructure:"reminders"`
	SMTP         SMTPConfig          `mapstructure:"smtp"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	URLExpiry       time.Duration `mapstructure:"url_expiry"` // presigned statement links
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// AppConfig holds business-wide settings.
type AppConfig struct {
	// Timezone decides what "today" and "this weekday" mean for billing
	// status and the next session.
	Timezone string `mapstructure:"timezone"`
}

// ClientsConfig holds defaults applied when a client record omits a field.
type ClientsConfig struct {
	DefaultActive bool `mapstructure:"default_active"`
}

// RemindersConfig drives the dues digest job.
type RemindersConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Schedule     string `mapstructure:"schedule"`      // cron spec, minute precision
	ExpiringDays int    `mapstructure:"expiring_days"` // paid clients expiring within this many days are listed
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Location resolves App.Timezone.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "trainer_desk")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.url_expiry", "15m")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("clients.default_active", true)
	v.SetDefault("availability.window_start", availability.DefaultWindowStart)
	v.SetDefault("availability.window_end", availability.DefaultWindowEnd)
	v.SetDefault("availability.min_slot_minutes", availability.DefaultMinSlotMinutes)
	v.SetDefault("reminders.enabled", false)
	v.SetDefault("reminders.schedule", "0 8 * * *")
	v.SetDefault("reminders.expiring_days", 3)
	v.SetDefault("smtp.port", 587)
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: rely on defaults and env vars
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	return config, nil
}
