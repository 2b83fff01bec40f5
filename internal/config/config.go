package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// Facility.
	FacilityTimezone string `mapstructure:"FACILITY_TIMEZONE"`
	CourtCount       int    `mapstructure:"COURT_COUNT"`
	WeekdayOpen      string `mapstructure:"WEEKDAY_OPEN"`
	WeekdayClose     string `mapstructure:"WEEKDAY_CLOSE"`
	WeekendOpen      string `mapstructure:"WEEKEND_OPEN"`
	WeekendClose     string `mapstructure:"WEEKEND_CLOSE"`

	// Availability checks.
	DaysAhead       int    `mapstructure:"DAYS_AHEAD"`
	MinSlotMinutes  int    `mapstructure:"MIN_SLOT_MINUTES"`
	CacheTTLMinutes int    `mapstructure:"CACHE_TTL_MINUTES"`
	CheckCron       string `mapstructure:"CHECK_CRON"`

	// CourtReserve source.
	CourtReserveURL string `mapstructure:"COURTRESERVE_URL"`
	OrgID           string `mapstructure:"COURTRESERVE_ORG_ID"`
	CostTypeID      string `mapstructure:"COURTRESERVE_COST_TYPE_ID"`
	SchedulerID     string `mapstructure:"COURTRESERVE_SCHEDULER_ID"`
	MinInterval     int    `mapstructure:"COURTRESERVE_MIN_INTERVAL"`

	// Notifications.
	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`
	EmailTemplatePath string `mapstructure:"EMAIL_TEMPLATE_PATH"`
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `mapstructure:"TWILIO_FROM_NUMBER"`
	AlertPhone        string `mapstructure:"ALERT_PHONE"`
}

// Load reads configuration from the environment, with defaults for every
// non-secret key. Every key needs a default so viper's AutomaticEnv feeds the
// unmarshal.
func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "")

	viper.SetDefault("FACILITY_TIMEZONE", "America/New_York")
	viper.SetDefault("COURT_COUNT", 7)
	viper.SetDefault("WEEKDAY_OPEN", "7:00 AM")
	viper.SetDefault("WEEKDAY_CLOSE", "11:00 PM")
	viper.SetDefault("WEEKEND_OPEN", "8:00 AM")
	viper.SetDefault("WEEKEND_CLOSE", "10:00 PM")

	viper.SetDefault("DAYS_AHEAD", 5)
	viper.SetDefault("MIN_SLOT_MINUTES", 30)
	viper.SetDefault("CACHE_TTL_MINUTES", 5)
	viper.SetDefault("CHECK_CRON", "*/10 * * * *")

	viper.SetDefault("COURTRESERVE_URL", "https://usta.courtreserve.com")
	viper.SetDefault("COURTRESERVE_ORG_ID", "5881")
	viper.SetDefault("COURTRESERVE_COST_TYPE_ID", "78549")
	viper.SetDefault("COURTRESERVE_SCHEDULER_ID", "294")
	viper.SetDefault("COURTRESERVE_MIN_INTERVAL", 30)

	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("SENDGRID_FROM_EMAIL", "")
	viper.SetDefault("SENDGRID_FROM_NAME", "Court Watch")
	viper.SetDefault("EMAIL_TEMPLATE_PATH", "internal/templates/availability_email.html")
	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_FROM_NUMBER", "")
	viper.SetDefault("ALERT_PHONE", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
