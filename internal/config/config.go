package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	StorageBucket                    string `mapstructure:"STORAGE_BUCKET"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`

	// AdminEmail is the one reserved address that is auto-provisioned (or
	// auto-promoted) to the admin role on sign-in. Optional; when empty no
	// auto-promotion happens.
	AdminEmail string `mapstructure:"ADMIN_EMAIL"`

	// Optional infrastructure. Left empty, the corresponding component is
	// skipped at startup.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	AMQPURL       string `mapstructure:"AMQP_URL"`
	EventQueue    string `mapstructure:"EVENT_QUEUE"`

	// Contact-intake notification mail (Mailtrap-style SMTP credentials).
	SMTPUser           string `mapstructure:"SMTP_USER"`
	SMTPPassword       string `mapstructure:"SMTP_PASSWORD"`
	ContactNotifyEmail string `mapstructure:"CONTACT_NOTIFY_EMAIL"`
	ContactFromEmail   string `mapstructure:"CONTACT_FROM_EMAIL"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("EVENT_QUEUE", "case_events")

	for _, key := range []string{
		"PORT", "GIN_MODE",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "STORAGE_BUCKET",
		"CLIENT_URL", "ADMIN_EMAIL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"AMQP_URL", "EVENT_QUEUE",
		"SMTP_USER", "SMTP_PASSWORD", "CONTACT_NOTIFY_EMAIL", "CONTACT_FROM_EMAIL",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.StorageBucket == "" {
		return nil, errors.New("STORAGE_BUCKET is required")
	}

	return &cfg, nil
}
