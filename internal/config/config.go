package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string        `yaml:"addr"`         // APP_ADDR
	DatabaseDSN string        `yaml:"database_dsn"` // DB_DSN (optional, empty = in-memory catalog)
	DBTimeout   time.Duration `yaml:"db_timeout"`   // DB_TIMEOUT

	RedisAddr string        `yaml:"redis_addr"` // REDIS_ADDR (optional, empty = no cache)
	CacheTTL  time.Duration `yaml:"cache_ttl"`  // CACHE_TTL

	KafkaBroker string `yaml:"kafka_broker"` // KAFKA_BROKER (optional, empty = no search events)
	SearchTopic string `yaml:"search_topic"` // SEARCH_TOPIC

	KalaAPIURL     string `yaml:"kala_api_url"`     // KALA_API_URL
	KalaAPIRPS     int    `yaml:"kala_api_rps"`     // KALA_API_RPS
	KalaAPIRetries int    `yaml:"kala_api_retries"` // KALA_API_RETRIES
	UserAgent      string `yaml:"user_agent"`       // KALA_USER_AGENT

	JWTSecret string        `yaml:"-"`         // JWT_SECRET (optional, empty = admin routes disabled)
	TokenTTL  time.Duration `yaml:"token_ttl"` // TOKEN_TTL

	// Operators may exchange a password for a token. OPERATORS (csv of
	// name:role:bcrypt-hash).
	Operators []Operator `yaml:"operators"`

	CORSOrigins    []string `yaml:"cors_origins"`     // CORS_ORIGINS (csv)
	EnableHSTS     bool     `yaml:"enable_hsts"`      // ENABLE_HSTS
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`   // RATE_LIMIT_RPS
	RateLimitBurst int      `yaml:"rate_limit_burst"` // RATE_LIMIT_BURST
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`   // MAX_BODY_BYTES
	TrustedProxies []string `yaml:"trusted_proxies"`  // TRUSTED_PROXIES (csv of CIDRs or addresses)

	PageSizeDefault int `yaml:"page_size_default"` // PAGE_SIZE_DEFAULT
	PageSizeMax     int `yaml:"page_size_max"`     // PAGE_SIZE_MAX

	IngestCategories []string `yaml:"ingest_categories"` // INGEST_CATEGORIES (csv)
	IngestBatch      int      `yaml:"ingest_batch"`      // INGEST_BATCH

	SupportPhone string `yaml:"support_phone"` // SUPPORT_PHONE

	LogLevel  string `yaml:"log_level"`  // LOG_LEVEL
	LogFormat string `yaml:"log_format"` // LOG_FORMAT
}

type Operator struct {
	Name         string `yaml:"name"`
	Role         string `yaml:"role"`
	PasswordHash string `yaml:"password_hash"`
}

func defaults() *Config {
	return &Config{
		Addr:             ":8080",
		DBTimeout:        2 * time.Second,
		CacheTTL:         60 * time.Second,
		SearchTopic:      "catalog.search.requests",
		KalaAPIURL:       "http://localhost:8080",
		KalaAPIRPS:       5,
		KalaAPIRetries:   3,
		UserAgent:        "kala-sahayak-storefront/1.0",
		TokenTTL:         time.Hour,
		CORSOrigins:      []string{"http://localhost:5173"},
		RateLimitRPS:     20,
		RateLimitBurst:   40,
		MaxBodyBytes:     1 << 20,
		PageSizeDefault:  8,
		PageSizeMax:      100,
		IngestCategories: []string{"rugs", "pottery", "textiles", "jewelry", "woodwork", "metalcraft"},
		IngestBatch:      50,
		SupportPhone:     "+919876543210",
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// LoadEnvFiles reads .env and .env.local without overriding variables that
// are already set by the runtime.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration from defaults, the optional YAML file named
// by KALA_CONFIG_FILE, and the environment, in that order of precedence.
func Load() (*Config, error) {
	LoadEnvFiles()

	c := defaults()
	if path := os.Getenv("KALA_CONFIG_FILE"); path != "" {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}

	var p envParser
	p.str(&c.Addr, "APP_ADDR")
	p.str(&c.DatabaseDSN, "DB_DSN")
	p.duration(&c.DBTimeout, "DB_TIMEOUT")
	p.str(&c.RedisAddr, "REDIS_ADDR")
	p.duration(&c.CacheTTL, "CACHE_TTL")
	p.str(&c.KafkaBroker, "KAFKA_BROKER")
	p.str(&c.SearchTopic, "SEARCH_TOPIC")
	p.str(&c.KalaAPIURL, "KALA_API_URL")
	p.integer(&c.KalaAPIRPS, "KALA_API_RPS")
	p.integer(&c.KalaAPIRetries, "KALA_API_RETRIES")
	p.str(&c.UserAgent, "KALA_USER_AGENT")
	p.str(&c.JWTSecret, "JWT_SECRET")
	p.duration(&c.TokenTTL, "TOKEN_TTL")
	p.operators(&c.Operators, "OPERATORS")
	p.list(&c.CORSOrigins, "CORS_ORIGINS")
	p.boolean(&c.EnableHSTS, "ENABLE_HSTS")
	p.float(&c.RateLimitRPS, "RATE_LIMIT_RPS")
	p.integer(&c.RateLimitBurst, "RATE_LIMIT_BURST")
	p.int64(&c.MaxBodyBytes, "MAX_BODY_BYTES")
	p.list(&c.TrustedProxies, "TRUSTED_PROXIES")
	p.integer(&c.PageSizeDefault, "PAGE_SIZE_DEFAULT")
	p.integer(&c.PageSizeMax, "PAGE_SIZE_MAX")
	p.list(&c.IngestCategories, "INGEST_CATEGORIES")
	p.integer(&c.IngestBatch, "INGEST_BATCH")
	p.str(&c.SupportPhone, "SUPPORT_PHONE")
	p.str(&c.LogLevel, "LOG_LEVEL")
	p.str(&c.LogFormat, "LOG_FORMAT")
	if p.err != nil {
		return nil, p.err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.PageSizeDefault <= 0:
		return fmt.Errorf("PAGE_SIZE_DEFAULT must be positive")
	case c.PageSizeMax < c.PageSizeDefault:
		return fmt.Errorf("PAGE_SIZE_MAX must be at least PAGE_SIZE_DEFAULT")
	case c.KalaAPIRPS <= 0:
		return fmt.Errorf("KALA_API_RPS must be positive")
	case c.IngestBatch <= 0:
		return fmt.Errorf("INGEST_BATCH must be positive")
	case c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0:
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	case c.TokenTTL <= 0:
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if _, err := c.ProxyPrefixes(); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	for _, op := range c.Operators {
		if op.Name == "" || op.Role == "" || op.PasswordHash == "" {
			return fmt.Errorf("operator %q needs a name, role and password hash", op.Name)
		}
	}
	return nil
}

// ProxyPrefixes parses TrustedProxies. A bare address is a single-host
// prefix.
func (c *Config) ProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, s := range c.TrustedProxies {
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("%q is neither a CIDR nor an address", s)
		}
		out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return out, nil
}

// envParser applies set environment variables and keeps the first parse
// error.
type envParser struct {
	err error
}

func (p *envParser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (p *envParser) fail(key string, err error) {
	p.err = fmt.Errorf("%s: %w", key, err)
}

func (p *envParser) str(dst *string, key string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}

func (p *envParser) list(dst *[]string, key string) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

// operators parses name:role:hash entries. bcrypt hashes hold no ':' or ','.
func (p *envParser) operators(dst *[]Operator, key string) {
	var entries []string
	p.list(&entries, key)
	if entries == nil || p.err != nil {
		return
	}
	ops := make([]Operator, 0, len(entries))
	for _, e := range entries {
		parts := strings.SplitN(e, ":", 3)
		if len(parts) != 3 {
			p.fail(key, fmt.Errorf("entry %q is not name:role:hash", e))
			return
		}
		ops = append(ops, Operator{Name: parts[0], Role: parts[1], PasswordHash: parts[2]})
	}
	*dst = ops
}

func (p *envParser) integer(dst *int, key string) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) int64(dst *int64, key string) {
	if v, ok := p.lookup(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) float(dst *float64, key string) {
	if v, ok := p.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = f
	}
}

func (p *envParser) boolean(dst *bool, key string) {
	if v, ok := p.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = b
	}
}

func (p *envParser) duration(dst *time.Duration, key string) {
	if v, ok := p.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = d
	}
}

// RedactDSN hides the credentials part of a connection string for logging.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
