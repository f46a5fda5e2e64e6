package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// CORSOrigins lists allowed origins; empty disables CORS headers.
		CORSOrigins []string `yaml:"corsOrigins"`
		// RateLimit is the burst of POST /analyze per session, RatePerMinute the refill.
		RateLimit     int  `yaml:"rateLimit"`
		RatePerMinute int  `yaml:"ratePerMinute"`
		SecureCookies bool `yaml:"secureCookies"`
	} `yaml:"server"`

	Database struct {
		// Driver is sqlite (default), mysql or postgres.
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Analyzers struct {
		StaticURL     string `yaml:"staticURL"`
		DependencyURL string `yaml:"dependencyURL"`
		AIURL         string `yaml:"aiURL"`
		// TimeoutSeconds bounds each analyzer call.
		TimeoutSeconds int `yaml:"timeoutSeconds"`
	} `yaml:"analyzers"`

	AI struct {
		// Provider is remote (the AI analyzer service), openai, or heuristic.
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"apiKey"`
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"baseURL"`
	} `yaml:"ai"`

	Dashboard struct {
		// AnalyzeURL points the dashboard at a remote gateway; empty runs it in process.
		AnalyzeURL        string `yaml:"analyzeURL"`
		SessionTTLSeconds int    `yaml:"sessionTTLSeconds"`
	} `yaml:"dashboard"`

	Logging struct {
		Level  string `yaml:"level"`  // debug|info|warn|error
		Format string `yaml:"format"` // json|console
	} `yaml:"logging"`
}

func Default() *Config {
	var c Config
	c.Server.Port = 5000
	c.Server.RateLimit = 10
	c.Server.RatePerMinute = 30
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./secscan.db"
	c.Minio.BucketName = "secscan"
	c.Minio.Region = "us-east-1"
	c.Analyzers.StaticURL = "http://static-analyzer:5003"
	c.Analyzers.DependencyURL = "http://dependency-analyzer:5004"
	c.Analyzers.AIURL = "http://ai-analyzer:5001"
	c.Analyzers.TimeoutSeconds = 30
	c.AI.Provider = "remote"
	c.Dashboard.SessionTTLSeconds = 300
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	return &c
}

// Load baca file config (kalau ada), lalu override dari env.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("SECSCAN_DB_DRIVER", &c.Database.Driver)
	str("SECSCAN_DB_DSN", &c.Database.DSN)
	str("SECSCAN_STATIC_URL", &c.Analyzers.StaticURL)
	str("SECSCAN_DEPENDENCY_URL", &c.Analyzers.DependencyURL)
	str("SECSCAN_AI_URL", &c.Analyzers.AIURL)
	str("SECSCAN_AI_PROVIDER", &c.AI.Provider)
	str("OPENAI_API_KEY", &c.AI.APIKey)
	str("SECSCAN_ANALYZE_URL", &c.Dashboard.AnalyzeURL)
	str("SECSCAN_LOG_LEVEL", &c.Logging.Level)
	str("SECSCAN_LOG_FORMAT", &c.Logging.Format)
	str("SECSCAN_MINIO_ENDPOINT", &c.Minio.Endpoint)
	str("SECSCAN_MINIO_ACCESS_KEY", &c.Minio.AccessKey)
	str("SECSCAN_MINIO_SECRET_KEY", &c.Minio.SecretKey)

	if v, ok := lookup("SECSCAN_PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SECSCAN_PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v, ok := lookup("SECSCAN_MINIO_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SECSCAN_MINIO_ENABLED: %w", err)
		}
		c.Minio.Enabled = b
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("database.driver %q (want sqlite, mysql or postgres)", c.Database.Driver)
	}
	switch c.AI.Provider {
	case "remote", "heuristic":
	case "openai":
		if c.AI.APIKey == "" {
			return errors.New("ai.provider openai needs ai.apiKey or OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("ai.provider %q (want remote, openai or heuristic)", c.AI.Provider)
	}
	for name, raw := range map[string]string{
		"analyzers.staticURL":     c.Analyzers.StaticURL,
		"analyzers.dependencyURL": c.Analyzers.DependencyURL,
		"dashboard.analyzeURL":    c.Dashboard.AnalyzeURL,
	} {
		if raw == "" {
			continue
		}
		if err := validateServiceURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Minio.Enabled && c.Minio.Endpoint == "" {
		return errors.New("minio.enabled needs minio.endpoint")
	}
	return nil
}

func validateServiceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// DSN returns the connection string for the configured driver. An explicit
// database.dsn wins over the host/user fields.
func (c *Config) DSN() string {
	switch c.Database.Driver {
	case "mysql":
		if c.Database.DSN != "" && c.Database.DSN != Default().Database.DSN {
			return c.Database.DSN
		}
		return c.MySQLDSN()
	case "postgres":
		if c.Database.DSN != "" && c.Database.DSN != Default().Database.DSN {
			return c.Database.DSN
		}
		return c.PostgresDSN()
	default:
		return c.Database.DSN
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.Analyzers.TimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Dashboard.SessionTTLSeconds) * time.Second
}

// RateInterval is the time to refill one analyze token.
func (c *Config) RateInterval() time.Duration {
	if c.Server.RatePerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(c.Server.RatePerMinute)
}

// Redacted hides secrets for logging.
func (c *Config) Redacted() Config {
	r := *c
	for _, p := range []*string{&r.Database.Password, &r.Minio.SecretKey, &r.AI.APIKey} {
		if *p != "" {
			*p = strings.Repeat("*", 8)
		}
	}
	return r
}
