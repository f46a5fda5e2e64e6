package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 || cfg.Database.Driver != "sqlite" || cfg.AnalyzerTimeout() != 30*time.Second {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.SessionTTL() != 5*time.Minute {
		t.Fatalf("session ttl = %v", cfg.SessionTTL())
	}
	a := cfg.Analyzers
	if a.StaticURL != "http://static-analyzer:5003" || a.DependencyURL != "http://dependency-analyzer:5004" || a.AIURL != "http://ai-analyzer:5001" {
		t.Fatalf("analyzer defaults = %+v", a)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: 8080
  corsOrigins: ["http://localhost:3000"]
database:
  driver: postgres
  host: db
  port: 5432
  user: scan
  password: s3cret
  name: secscan
analyzers:
  staticURL: http://static:5003
  timeoutSeconds: 10
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SECSCAN_PORT", "9090")
	t.Setenv("SECSCAN_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, env should win", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Analyzers.StaticURL != "http://static:5003" || cfg.AnalyzerTimeout() != 10*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if dsn := cfg.DSN(); dsn != "postgres://scan:s3cret@db:5432/secscan?sslmode=disable" {
		t.Fatalf("dsn = %q", dsn)
	}
	if r := cfg.Redacted(); strings.Contains(r.Database.Password, "s3cret") || cfg.Database.Password != "s3cret" {
		t.Fatalf("redaction leaked or mutated the original")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		ok   bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad driver", func(c *Config) { c.Database.Driver = "mongo" }, false},
		{"openai without key", func(c *Config) { c.AI.Provider = "openai" }, false},
		{"openai with key", func(c *Config) { c.AI.Provider = "openai"; c.AI.APIKey = "sk-test" }, true},
		{"bad url scheme", func(c *Config) { c.Analyzers.StaticURL = "ftp://static" }, false},
		{"port", func(c *Config) { c.Server.Port = 0 }, false},
		{"minio without endpoint", func(c *Config) { c.Minio.Enabled = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mod(c)
			err := c.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := Default()
	c.Database.Driver = "mysql"
	c.Database.User, c.Database.Password = "root", "pw"
	c.Database.Host, c.Database.Port, c.Database.Name = "mysql", 3306, "secscan"
	want := "root:pw@tcp(mysql:3306)/secscan?parseTime=true&charset=utf8mb4&loc=UTC"
	if c.DSN() != want {
		t.Fatalf("DSN = %q, want %q", c.DSN(), want)
	}
}
