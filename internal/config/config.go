package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	GoogleClientID      string   // OAuth client id the admin panel signs in with; ID tokens must carry it as audience
	BootstrapAdmins     []string // seeded into the admins table at startup, never consulted at runtime
	AllowedQuotas       []int
	LockAfterResponse   bool // RSVP_LOCK_AFTER_RESPONSE: reject a second RSVP for a code that already answered
	PublicBaseURL       string
	NatsURL             string
	SendinblueAPIKey    string
	MailFrom            string
}

var defaultQuotas = []int{2, 4, 6, 10}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}
	if dbURL == "" {
		dbURL = "sqlite:invitacion.db"
	}

	quotas, err := parseQuotas(viper.GetString("ALLOWED_QUOTAS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Env:                 env,
		Port:                port,
		LogLevel:            strings.ToLower(strings.TrimSpace(viper.GetString("LOG_LEVEL"))),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		GoogleClientID:      strings.TrimSpace(viper.GetString("GOOGLE_CLIENT_ID")),
		BootstrapAdmins:     splitList(viper.GetString("BOOTSTRAP_ADMINS")),
		AllowedQuotas:       quotas,
		LockAfterResponse:   strings.EqualFold(viper.GetString("RSVP_LOCK_AFTER_RESPONSE"), "true"),
		PublicBaseURL:       publicBaseURL(viper.GetString("PUBLIC_BASE_URL")),
		NatsURL:             strings.TrimSpace(viper.GetString("NATS_URL")),
		SendinblueAPIKey:    viper.GetString("SENDINBLUE_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
	}, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func publicBaseURL(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if s == "" {
		return "http://localhost:5173"
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseQuotas(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return append([]int(nil), defaultQuotas...), nil
	}
	quotas := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("ALLOWED_QUOTAS: invalid quota %q", p)
		}
		quotas = append(quotas, n)
	}
	return quotas, nil
}
