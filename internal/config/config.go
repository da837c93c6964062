package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dgallion1/aozora/internal/ruby"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Conversion defaults
	CSSFiles       []string
	GaijiImageDir  string
	RubyPolicy     string
	StripHeader    bool
	MidashiAnchors bool
	Metadata       bool
}

// fileConfig mirrors Config in the TOML file named by AOZORA_CONFIG.
type fileConfig struct {
	Port           string   `toml:"port"`
	APIKey         string   `toml:"api_key"`
	WorkerCount    int      `toml:"worker_count"`
	MaxQueueSize   int      `toml:"max_queue_size"`
	MaxUploadBytes int64    `toml:"max_upload_bytes"`
	JobTTL         string   `toml:"job_ttl"`
	CSSFiles       []string `toml:"css_files"`
	GaijiImageDir  string   `toml:"gaiji_image_dir"`
	RubyPolicy     string   `toml:"ruby_policy"`
	StripHeader    *bool    `toml:"strip_header"`
	MidashiAnchors *bool    `toml:"midashi_anchors"`
	Metadata       *bool    `toml:"metadata"`
}

func defaults() Config {
	return Config{
		Port:           "8090",
		WorkerCount:    4,
		MaxQueueSize:   100,
		MaxUploadBytes: 52428800, // 50MB
		JobTTL:         1 * time.Hour,
		RubyPolicy:     ruby.KanjiKatakana.String(),
		StripHeader:    true,
		Metadata:       true,
	}
}

// Load builds the configuration from defaults, then the optional TOML file
// named by AOZORA_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("AOZORA_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("AOZORA_API_KEY", cfg.APIKey)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	cfg.CSSFiles = envList("AOZORA_CSS_FILES", cfg.CSSFiles)
	cfg.GaijiImageDir = envOr("AOZORA_GAIJI_DIR", cfg.GaijiImageDir)
	cfg.RubyPolicy = envOr("AOZORA_RUBY_POLICY", cfg.RubyPolicy)
	cfg.StripHeader = envBool("AOZORA_STRIP_HEADER", cfg.StripHeader)
	cfg.MidashiAnchors = envBool("AOZORA_MIDASHI_ANCHORS", cfg.MidashiAnchors)
	cfg.Metadata = envBool("AOZORA_METADATA", cfg.Metadata)

	cfg.clamp()
	return cfg, nil
}

// LoadFile applies the settings present in a TOML file. Keys that are
// absent keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var f fileConfig
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if f.Port != "" {
		c.Port = f.Port
	}
	if f.APIKey != "" {
		c.APIKey = f.APIKey
	}
	if f.WorkerCount != 0 {
		c.WorkerCount = f.WorkerCount
	}
	if f.MaxQueueSize != 0 {
		c.MaxQueueSize = f.MaxQueueSize
	}
	if f.MaxUploadBytes != 0 {
		c.MaxUploadBytes = f.MaxUploadBytes
	}
	if f.JobTTL != "" {
		d, err := time.ParseDuration(f.JobTTL)
		if err != nil {
			return fmt.Errorf("parse config %s: job_ttl: %w", path, err)
		}
		c.JobTTL = d
	}
	if f.CSSFiles != nil {
		c.CSSFiles = f.CSSFiles
	}
	if f.GaijiImageDir != "" {
		c.GaijiImageDir = f.GaijiImageDir
	}
	if f.RubyPolicy != "" {
		c.RubyPolicy = f.RubyPolicy
	}
	if f.StripHeader != nil {
		c.StripHeader = *f.StripHeader
	}
	if f.MidashiAnchors != nil {
		c.MidashiAnchors = *f.MidashiAnchors
	}
	if f.Metadata != nil {
		c.Metadata = *f.Metadata
	}
	return nil
}

func (c *Config) clamp() {
	d := defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
}

// Policy returns the configured ruby base policy.
func (c Config) Policy() (ruby.Policy, error) {
	return ruby.ParsePolicy(c.RubyPolicy)
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("AOZORA_API_KEY is required")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma separated variable, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
