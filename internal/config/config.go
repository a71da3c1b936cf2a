package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		BaseURL        string        `yaml:"base_url" validate:"required,url"`
		QuoteAsset     string        `yaml:"quote_asset" validate:"required"`
		ContractType   string        `yaml:"contract_type" validate:"required"`
		MaxSymbols     int           `yaml:"max_symbols" validate:"gt=0"`
		Interval       string        `yaml:"interval" validate:"required"`
		Limit          int           `yaml:"limit" validate:"gte=35,lte=1500"`
		RateLimit      float64       `yaml:"rate_limit" validate:"gt=0"`
		RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	} `yaml:"exchange"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		Polling  bool   `yaml:"polling"`
	} `yaml:"telegram"`
	Scan struct {
		Interval          time.Duration `yaml:"interval" validate:"gte=1s"`
		Workers           int           `yaml:"workers" validate:"gte=1,lte=64"`
		InstrumentTimeout time.Duration `yaml:"instrument_timeout" validate:"gt=0"`
		SideEffectTimeout time.Duration `yaml:"side_effect_timeout" validate:"gt=0"`
		Timezone          string        `yaml:"timezone" validate:"required"`
		RunOnStart        bool          `yaml:"run_on_start"`
	} `yaml:"scan"`
	SignalLog struct {
		CSVPath       string `yaml:"csv_path"`
		SQLitePath    string `yaml:"sqlite_path"`
		RedisAddr     string `yaml:"redis_addr" validate:"omitempty,hostname_port"`
		RedisPassword string `yaml:"redis_password"`
		RedisChannel  string `yaml:"redis_channel"`
	} `yaml:"signal_log"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
		Format string `yaml:"format" validate:"omitempty,oneof=console json"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies environment variable overrides
// and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		c.Exchange.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SCAN_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SCAN_INTERVAL: %w", err)
		}
		c.Scan.Interval = d
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCAN_WORKERS: %w", err)
		}
		c.Scan.Workers = n
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		c.Scan.RunOnStart = v == "true"
	}
	if v := os.Getenv("SIGNAL_LOG_PATH"); v != "" {
		c.SignalLog.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.SignalLog.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.SignalLog.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.SignalLog.RedisPassword = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Exchange.BaseURL == "" {
		c.Exchange.BaseURL = "https://fapi.binance.com"
	}
	if c.Exchange.QuoteAsset == "" {
		c.Exchange.QuoteAsset = "USDT"
	}
	if c.Exchange.ContractType == "" {
		c.Exchange.ContractType = "PERPETUAL"
	}
	if c.Exchange.MaxSymbols == 0 {
		c.Exchange.MaxSymbols = 200
	}
	if c.Exchange.Interval == "" {
		c.Exchange.Interval = "15m"
	}
	if c.Exchange.Limit == 0 {
		c.Exchange.Limit = 100
	}
	if c.Exchange.RateLimit == 0 {
		c.Exchange.RateLimit = 10
	}
	if c.Exchange.RequestTimeout == 0 {
		c.Exchange.RequestTimeout = 10 * time.Second
	}
	if c.Scan.Interval == 0 {
		c.Scan.Interval = 5 * time.Minute
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if c.Scan.InstrumentTimeout == 0 {
		c.Scan.InstrumentTimeout = 15 * time.Second
	}
	if c.Scan.SideEffectTimeout == 0 {
		c.Scan.SideEffectTimeout = 10 * time.Second
	}
	if c.Scan.Timezone == "" {
		c.Scan.Timezone = "Asia/Ho_Chi_Minh"
	}
	if c.SignalLog.CSVPath == "" {
		c.SignalLog.CSVPath = "log.csv"
	}
	if c.SignalLog.RedisChannel == "" {
		c.SignalLog.RedisChannel = "futures:signals"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks field constraints and that the timezone can be loaded.
// Telegram credentials are optional; without them notifications are disabled.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the timezone used for result timestamps.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Scan.Timezone)
	if err != nil {
		return nil, fmt.Errorf("scan.timezone: %w", err)
	}
	return loc, nil
}
