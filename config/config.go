package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port         int    `yaml:"port"`
	Mode         string `yaml:"mode"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// MySQLConfig database configuration
type MySQLConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	MaxOpenConns int    `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
}

// RedisConfig redis configuration. Redis is auxiliary here: refresh-token
// revocation and webhook replay suppression degrade gracefully when disabled.
type RedisConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	Enabled  bool     `yaml:"enabled"`
}

// JWTConfig token issuance configuration
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessExpireMins   int    `yaml:"access_expire_mins" mapstructure:"access_expire_mins"`
	RefreshExpireHours int    `yaml:"refresh_expire_hours" mapstructure:"refresh_expire_hours"`
}

// FlutterwaveConfig payment gateway configuration
type FlutterwaveConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	SecretKey      string `yaml:"secret_key" mapstructure:"secret_key"`
	SecretHash     string `yaml:"secret_hash" mapstructure:"secret_hash"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	SiteLogoURL    string `yaml:"site_logo_url" mapstructure:"site_logo_url"`
	RedirectURL    string `yaml:"redirect_url" mapstructure:"redirect_url"`
}

// ShippingConfig two-tier flat-rate shipping table
type ShippingConfig struct {
	LocalRate         float64  `yaml:"local_rate" mapstructure:"local_rate"`
	InternationalRate float64  `yaml:"international_rate" mapstructure:"international_rate"`
	LocalCountries    []string `yaml:"local_countries" mapstructure:"local_countries"`
}

// SMTPConfig notification mail. Delivery is fire-and-forget; failures are
// logged and swallowed.
type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	From      string `yaml:"from"`
	AdminAddr string `yaml:"admin_addr" mapstructure:"admin_addr"`
	Enabled   bool   `yaml:"enabled"`
}

type Logger struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
}

type Database struct {
	Mysql MySQLConfig `yaml:"mysql"`
	Redis RedisConfig `yaml:"redis"`
}

// RateLimitRule a single token-bucket rule
type RateLimitRule struct {
	RPS   int `yaml:"rps" mapstructure:"rps"`
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// RateLimitsConfig per-route-group rate limits
type RateLimitsConfig struct {
	Global   RateLimitRule `yaml:"global" mapstructure:"global"`
	Auth     RateLimitRule `yaml:"auth" mapstructure:"auth"`
	Checkout RateLimitRule `yaml:"checkout" mapstructure:"checkout"`
}

// Config top-level configuration, nesting all sections
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    Database          `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Flutterwave FlutterwaveConfig `yaml:"flutterwave"`
	Shipping    ShippingConfig    `yaml:"shipping"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	Logger      Logger            `yaml:"log" mapstructure:"log"`
	RateLimits  RateLimitsConfig  `yaml:"rate_limits" mapstructure:"rate_limits"`
}

func InitConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var globalConfig Config
	if err := viper.Unmarshal(&globalConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	applyDefaults(&globalConfig)

	return &globalConfig, nil
}

// LoadConfig loads the default config.yaml, falling back to the path used
// when running from a cmd/ subdirectory.
func LoadConfig() (*Config, error) {
	cfg, err := InitConfig("config/config.yaml")
	if err != nil {
		cfg, err = InitConfig("../../config/config.yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %v", err)
		}
	}

	return cfg, nil
}

// applyDefaults fills zero values so a sparse config file cannot disable
// limits or leave the gateway without a timeout.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.AccessExpireMins == 0 {
		cfg.JWT.AccessExpireMins = 15
	}
	if cfg.JWT.RefreshExpireHours == 0 {
		cfg.JWT.RefreshExpireHours = 24 * 7
	}
	if cfg.Flutterwave.BaseURL == "" {
		cfg.Flutterwave.BaseURL = "https://api.flutterwave.com/v3"
	}
	if cfg.Flutterwave.TimeoutSeconds == 0 {
		cfg.Flutterwave.TimeoutSeconds = 30
	}
	if cfg.Flutterwave.RedirectURL == "" {
		cfg.Flutterwave.RedirectURL = "http://localhost:3000/payment/callback"
	}
	if cfg.Shipping.LocalRate == 0 {
		cfg.Shipping.LocalRate = 1500
	}
	if cfg.Shipping.InternationalRate == 0 {
		cfg.Shipping.InternationalRate = 5000
	}
	if len(cfg.Shipping.LocalCountries) == 0 {
		cfg.Shipping.LocalCountries = []string{"kenya", "nigeria"}
	}
	if cfg.RateLimits.Global.RPS == 0 {
		cfg.RateLimits.Global.RPS = 100
	}
	if cfg.RateLimits.Global.Burst == 0 {
		cfg.RateLimits.Global.Burst = 200
	}
	if cfg.RateLimits.Auth.RPS == 0 {
		cfg.RateLimits.Auth.RPS = 10
	}
	if cfg.RateLimits.Auth.Burst == 0 {
		cfg.RateLimits.Auth.Burst = 20
	}
	if cfg.RateLimits.Checkout.RPS == 0 {
		cfg.RateLimits.Checkout.RPS = 30
	}
	if cfg.RateLimits.Checkout.Burst == 0 {
		cfg.RateLimits.Checkout.Burst = 60
	}
}
