package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"utility-billing/internal/catalog"
	"utility-billing/internal/logging"
	"utility-billing/internal/reporting"
)

const envPrefix = "ENERGY"

const (
	ModeMenu  = "menu"
	ModeServe = "serve"
)

// ReportConfig controls monthly report output.
type ReportConfig struct {
	Path       string
	Formats    []reporting.Format
	SystemName string
}

// SeedConfig controls startup data.
type SeedConfig struct {
	Enabled      bool
	PerProvince  int
	RandomSeed   int64
	BackdateDays int
	Fixture      string
}

// Config is the resolved runtime configuration.
type Config struct {
	Mode     string
	HTTPAddr string
	Log      logging.Config
	Report   ReportConfig
	Seed     SeedConfig
	Rates    map[catalog.Kind]decimal.Decimal
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeMenu)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("report.path", reporting.DefaultPath)
	v.SetDefault("report.formats", []string{string(reporting.FormatText)})
	v.SetDefault("report.system_name", reporting.DefaultSystemName)
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.per_province", 100)
	v.SetDefault("seed.random_seed", 0)
	v.SetDefault("seed.backdate_days", 0)
	v.SetDefault("seed.fixture", "")
}

// Load reads defaults, then the optional file at path, then ENERGY_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, kind := range catalog.Kinds() {
		_ = v.BindEnv("rates." + kind.Key())
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	formats, err := reporting.ParseFormats(splitList(v.GetStringSlice("report.formats")))
	if err != nil {
		return Config{}, fmt.Errorf("config: report.formats: %w", err)
	}
	rates, err := loadRates(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Mode:     strings.ToLower(strings.TrimSpace(v.GetString("mode"))),
		HTTPAddr: v.GetString("http.addr"),
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Report: ReportConfig{
			Path:       v.GetString("report.path"),
			Formats:    formats,
			SystemName: v.GetString("report.system_name"),
		},
		Seed: SeedConfig{
			Enabled:      v.GetBool("seed.enabled"),
			PerProvince:  v.GetInt("seed.per_province"),
			RandomSeed:   v.GetInt64("seed.random_seed"),
			BackdateDays: v.GetInt("seed.backdate_days"),
			Fixture:      v.GetString("seed.fixture"),
		},
		Rates: rates,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeMenu, ModeServe:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.Mode == ModeServe && strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: http.addr is required in serve mode")
	}
	if strings.TrimSpace(c.Report.Path) == "" {
		return errors.New("config: report.path is required")
	}
	if c.Seed.PerProvince < 0 {
		return errors.New("config: seed.per_province must not be negative")
	}
	if c.Seed.BackdateDays < 0 {
		return errors.New("config: seed.backdate_days must not be negative")
	}
	return nil
}

func loadRates(v *viper.Viper) (map[catalog.Kind]decimal.Decimal, error) {
	rates := make(map[catalog.Kind]decimal.Decimal)
	for _, kind := range catalog.Kinds() {
		key := "rates." + kind.Key()
		raw := strings.TrimSpace(v.GetString(key))
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", key, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("config: %s: %w", key, catalog.ErrNonPositivePrice)
		}
		rates[kind] = price
	}
	return rates, nil
}

// splitList accepts both YAML lists and comma-separated environment values.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
