package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/g3lasio/owlfenc/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig              `yaml:"server"`
	Log      LogConfig                 `yaml:"log"`
	Auth     AuthConfig                `yaml:"auth"`
	Users    []User                    `yaml:"users"`
	Store    StoreConfig               `yaml:"store"`
	Ledger   LedgerConfig              `yaml:"ledger"`
	Catalog  CatalogConfig             `yaml:"catalog"`
	Minio    MinioConfig               `yaml:"minio"`
	Enhancer EnhancerConfig            `yaml:"enhancer"`
	Profiles []model.ContractorProfile `yaml:"profiles"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// RateLimit is the per-IP request budget per minute for the whole API.
	RateLimit int `yaml:"rate_limit"`
	// SignatureRateLimit is the tighter per-IP budget for signature submission.
	SignatureRateLimit int `yaml:"signature_rate_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type User struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	ContractorID string `yaml:"contractor_id"`
}

type StoreConfig struct {
	// MaxDrafts caps unfinalized drafts kept in the draft store, 0 = unlimited.
	MaxDrafts int `yaml:"max_drafts"`
}

const (
	LedgerMemory   = "memory"
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
)

type LedgerConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type CatalogConfig struct {
	// Path of a YAML catalog; empty uses the built-in one.
	Path      string `yaml:"path"`
	TieBreak  string `yaml:"tie_break"`
	CacheSize int    `yaml:"cache_size"`
}

type MinioConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

const (
	EnhancerNone   = "none"
	EnhancerHTTP   = "http"
	EnhancerGemini = "gemini"
)

type EnhancerConfig struct {
	Provider       string `yaml:"provider"`
	APIURL         string `yaml:"api_url"`
	APIToken       string `yaml:"api_token"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// Load reads the YAML file at path, applies environment overrides (a .env
// file in the working directory is honoured) and fills defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(strings.TrimPrefix(v, ":"))
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	setFromEnv(&c.Auth.JWTSecret, "JWT_SECRET")
	setFromEnv(&c.Ledger.Driver, "LEDGER_DRIVER")
	setFromEnv(&c.Ledger.DSN, "LEDGER_DSN")
	setFromEnv(&c.Enhancer.APIKey, "GEMINI_API_KEY")
	setFromEnv(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setFromEnv(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	return nil
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 100
	}
	if c.Server.SignatureRateLimit == 0 {
		c.Server.SignatureRateLimit = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
	if c.Store.MaxDrafts == 0 {
		c.Store.MaxDrafts = 1000
	}
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = LedgerMemory
	}
	if c.Ledger.Driver == LedgerSQLite && c.Ledger.DSN == "" {
		c.Ledger.DSN = "data/signatures.db"
	}
	if c.Catalog.TieBreak == "" {
		c.Catalog.TieBreak = "first_declared"
	}
	if c.Catalog.CacheSize == 0 {
		c.Catalog.CacheSize = 256
	}
	if c.Minio.ExpireDays == 0 {
		c.Minio.ExpireDays = 7
	}
	if c.Enhancer.Provider == "" {
		c.Enhancer.Provider = EnhancerNone
	}
	if c.Enhancer.Model == "" {
		c.Enhancer.Model = "gemini-2.5-flash"
	}
	if c.Enhancer.TimeoutSeconds == 0 {
		c.Enhancer.TimeoutSeconds = 8
	}
	if c.Enhancer.MaxRetries == 0 {
		c.Enhancer.MaxRetries = 2
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Ledger.Driver {
	case LedgerMemory, LedgerSQLite:
	case LedgerPostgres:
		if c.Ledger.DSN == "" {
			return fmt.Errorf("ledger driver %q needs a dsn", c.Ledger.Driver)
		}
	default:
		return fmt.Errorf("unknown ledger driver %q", c.Ledger.Driver)
	}

	switch c.Enhancer.Provider {
	case EnhancerNone:
	case EnhancerHTTP:
		if c.Enhancer.APIURL == "" {
			return fmt.Errorf("enhancer provider %q needs api_url", c.Enhancer.Provider)
		}
	case EnhancerGemini:
		if c.Enhancer.APIKey == "" {
			return fmt.Errorf("enhancer provider %q needs an api key", c.Enhancer.Provider)
		}
	default:
		return fmt.Errorf("unknown enhancer provider %q", c.Enhancer.Provider)
	}

	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.Bucket == "") {
		return fmt.Errorf("minio is enabled but endpoint or bucket is missing")
	}
	return nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}

// FindProfile returns the profile on file for a contractor.
func (c *Config) FindProfile(contractorID string) (model.ContractorProfile, bool) {
	for _, p := range c.Profiles {
		if p.ContractorID == contractorID {
			return p, true
		}
	}
	return model.ContractorProfile{}, false
}
