package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host          string
	Port          int
	AllowedOrigin string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
	TokenTTL     time.Duration
}

type DashboardConfig struct {
	PollInterval time.Duration
	// DayOffset shifts "today" to the municipality's wall clock; the
	// store keeps UTC timestamps.
	DayOffset     time.Duration
	BinsPerPicker int64
	// CountAllPickersAsActive keeps the production behavior of counting
	// every registered picker as active, not only pickers with activity
	// today. Known naming/intent mismatch; do not flip silently.
	CountAllPickersAsActive bool
	WasteWeights            map[string]int64
}

type PickerQuotaConfig struct {
	MinWards int64
	MinBins  int64
}

type ReportsConfig struct {
	ValidStatuses []string
}

type StorageConfig struct {
	Backend       string // "local" or "gcs"
	LocalDir      string
	PublicBaseURL string
	GCSBucket     string
	GCSKeyPath    string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Dashboard   DashboardConfig
	PickerQuota PickerQuotaConfig
	Reports     ReportsConfig
	Storage     StorageConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:          v.GetString("HTTP_HOST"),
			Port:          v.GetInt("HTTP_PORT"),
			AllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			TokenTTL:     v.GetDuration("JWT_TOKEN_TTL"),
		},
		Dashboard: DashboardConfig{
			PollInterval:            v.GetDuration("DASHBOARD_POLL_INTERVAL"),
			DayOffset:               v.GetDuration("DASHBOARD_DAY_OFFSET"),
			BinsPerPicker:           v.GetInt64("DASHBOARD_BINS_PER_PICKER"),
			CountAllPickersAsActive: getBoolDefault(v, "DASHBOARD_COUNT_ALL_PICKERS_AS_ACTIVE", true),
			WasteWeights:            parseWeights(v.GetString("DASHBOARD_WASTE_WEIGHTS")),
		},
		PickerQuota: PickerQuotaConfig{
			MinWards: v.GetInt64("PICKER_QUOTA_MIN_WARDS"),
			MinBins:  v.GetInt64("PICKER_QUOTA_MIN_BINS"),
		},
		Reports: ReportsConfig{
			ValidStatuses: parseList(v.GetString("REPORTS_VALID_STATUSES")),
		},
		Storage: StorageConfig{
			Backend:       v.GetString("STORAGE_BACKEND"),
			LocalDir:      v.GetString("STORAGE_LOCAL_DIR"),
			PublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
			GCSBucket:     v.GetString("STORAGE_GCS_BUCKET"),
			GCSKeyPath:    v.GetString("STORAGE_GCS_KEY_PATH"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 5000
	}
	if cfg.HTTP.AllowedOrigin == "" {
		cfg.HTTP.AllowedOrigin = "http://localhost:3000"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Dashboard.PollInterval == 0 {
		cfg.Dashboard.PollInterval = 20 * time.Second
	}
	if cfg.Dashboard.DayOffset == 0 {
		cfg.Dashboard.DayOffset = 5*time.Hour + 30*time.Minute
	}
	if cfg.Dashboard.BinsPerPicker == 0 {
		cfg.Dashboard.BinsPerPicker = 10
	}
	if len(cfg.Dashboard.WasteWeights) == 0 {
		cfg.Dashboard.WasteWeights = map[string]int64{
			"wet": 3, "dry": 2, "metal": 5, "plastic": 1,
		}
	}
	if cfg.PickerQuota.MinWards == 0 {
		cfg.PickerQuota.MinWards = 5
	}
	if cfg.PickerQuota.MinBins == 0 {
		cfg.PickerQuota.MinBins = 10
	}
	if len(cfg.Reports.ValidStatuses) == 0 {
		cfg.Reports.ValidStatuses = []string{"Pending", "In Progress", "Resolved", "Rejected", "New"}
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./media"
	}
	if cfg.Storage.PublicBaseURL == "" {
		cfg.Storage.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Storage.Backend == "gcs" && cfg.Storage.GCSBucket == "" {
		return fmt.Errorf("STORAGE_GCS_BUCKET is required for gcs backend")
	}
	return nil
}

func getBoolDefault(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	return v.GetBool(key)
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// parseWeights reads "wet=3,dry=2" style pairs; bad pairs are skipped.
func parseWeights(raw string) map[string]int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	result := make(map[string]int64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(parts[0]))
		weight, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil || name == "" {
			continue
		}
		result[name] = weight
	}
	return result
}
