package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration values. It is loaded once at startup and
// passed by reference into the components that need it; nothing reads
// configuration from ambient state after that.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Microsoft Graph (calendar/directory API).
	ClientID     string `mapstructure:"CLIENT_ID"`
	ClientSecret string `mapstructure:"CLIENT_SECRET"`
	TenantID     string `mapstructure:"TENANT_ID"`
	OwnerEmail   string `mapstructure:"OWNER_EMAIL"`
	OwnerName    string `mapstructure:"OWNER_NAME"`

	// Odoo CRM.
	OdooURL    string `mapstructure:"ODOO_URL"`
	OdooDB     string `mapstructure:"ODOO_DB"`
	OdooUser   string `mapstructure:"ODOO_USER"`
	OdooAPIKey string `mapstructure:"ODOO_API_KEY"`

	// Twilio SMS gateway.
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`

	// Number quoted in SMS confirmations for reschedule requests.
	CallbackNumber string `mapstructure:"CALLBACK_NUMBER"`
}

// Load reads configuration from config.yaml (if present) and the process
// environment. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()

	// Set default values.
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("OWNER_NAME", "Tracey")
	v.SetDefault("CALLBACK_NUMBER", "")

	if err := v.ReadInConfig(); err != nil {
		// No config file is fine; environment variables carry the settings.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
