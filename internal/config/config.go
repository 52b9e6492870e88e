package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env        string `yaml:"env"`
	ListenAddr string `yaml:"listen_addr"`

	Log struct {
		Format string `yaml:"format"` // json|text
		Level  string `yaml:"level"`  // debug|info|warn|error
	} `yaml:"log"`

	Fetch struct {
		Timeout     time.Duration `yaml:"timeout"`
		InsecureTLS bool          `yaml:"insecure_tls"`
		UserAgent   string        `yaml:"user_agent"`
		MaxBytes    int64         `yaml:"max_bytes"`
	} `yaml:"fetch"`

	DNS struct {
		Server  string        `yaml:"server"` // host:port; empty uses resolv.conf
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"dns"`

	Whois struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"whois"`

	AnalysisTimeout time.Duration `yaml:"analysis_timeout"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	CORSOrigins     []string      `yaml:"cors_origins"`

	// DatabaseURL enables the verdict audit log when set.
	DatabaseURL    string `yaml:"database_url"`
	VerdictWorkers int    `yaml:"verdict_workers"`
	VerdictQueue   int    `yaml:"verdict_queue"`
}

func Default() Config {
	var c Config
	c.Env = "development"
	c.ListenAddr = ":5000"
	c.Log.Format = "json"
	c.Log.Level = "info"
	c.Fetch.Timeout = 10 * time.Second
	c.Fetch.InsecureTLS = true
	c.Fetch.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	c.Fetch.MaxBytes = 5 << 20
	c.DNS.Timeout = 5 * time.Second
	c.Whois.Timeout = 10 * time.Second
	c.AnalysisTimeout = 25 * time.Second
	c.RateLimitRPS = 10
	c.CORSOrigins = []string{"*"}
	c.VerdictWorkers = 2
	c.VerdictQueue = 256
	return c
}

// Load layers defaults, the YAML file named by PHISHGUARD_CONFIG, ./.env and
// the process environment, later sources winning.
func Load() (Config, error) {
	return load(".env", os.LookupEnv)
}

func load(dotenvPath string, lookupEnv func(string) (string, bool)) (Config, error) {
	dotenv, err := godotenv.Read(dotenvPath)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", dotenvPath, err)
	}
	e := env{lookup: lookupEnv, dotenv: dotenv}

	cfg := Default()
	if path := e.getenv("PHISHGUARD_CONFIG", ""); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Env = e.getenv("APP_ENV", cfg.Env)
	cfg.ListenAddr = e.getenv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.Log.Format = e.getenv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Level = e.getenv("LOG_LEVEL", cfg.Log.Level)
	cfg.Fetch.UserAgent = e.getenv("FETCH_USER_AGENT", cfg.Fetch.UserAgent)
	cfg.DNS.Server = e.getenv("DNS_SERVER", cfg.DNS.Server)
	cfg.DatabaseURL = e.getenv("DATABASE_URL", cfg.DatabaseURL)
	if v := e.getenv("CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	e.duration("FETCH_TIMEOUT", &cfg.Fetch.Timeout)
	e.duration("DNS_TIMEOUT", &cfg.DNS.Timeout)
	e.duration("WHOIS_TIMEOUT", &cfg.Whois.Timeout)
	e.duration("ANALYSIS_TIMEOUT", &cfg.AnalysisTimeout)
	e.boolean("FETCH_INSECURE_TLS", &cfg.Fetch.InsecureTLS)
	cfg.Fetch.MaxBytes = int64(e.getenvInt("FETCH_MAX_BYTES", int(cfg.Fetch.MaxBytes)))
	cfg.VerdictWorkers = e.getenvInt("VERDICT_WORKERS", cfg.VerdictWorkers)
	cfg.VerdictQueue = e.getenvInt("VERDICT_QUEUE", cfg.VerdictQueue)
	if v := e.getenv("RATE_LIMIT_RPS", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.errs = append(e.errs, fmt.Sprintf("RATE_LIMIT_RPS: %v", err))
		} else {
			cfg.RateLimitRPS = f
		}
	}

	if len(e.errs) > 0 {
		return Config{}, fmt.Errorf("invalid environment: %s", strings.Join(e.errs, "; "))
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	for name, d := range map[string]time.Duration{
		"fetch timeout":    c.Fetch.Timeout,
		"dns timeout":      c.DNS.Timeout,
		"whois timeout":    c.Whois.Timeout,
		"analysis timeout": c.AnalysisTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.DatabaseURL != "" && (c.VerdictWorkers < 1 || c.VerdictQueue < 1) {
		return fmt.Errorf("verdict workers and queue must be at least 1 when DATABASE_URL is set")
	}
	return nil
}

// AuditEnabled reports whether verdicts should be persisted.
func (c Config) AuditEnabled() bool { return c.DatabaseURL != "" }

// env resolves keys from the process environment first, then .env.
type env struct {
	lookup func(string) (string, bool)
	dotenv map[string]string
	errs   []string
}

func (e *env) getenv(key, def string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	if v := e.dotenv[key]; v != "" {
		return v
	}
	return def
}

func (e *env) getenvInt(key string, def int) int {
	v := e.getenv(key, "")
	if v == "" {
		return def
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return out
}

func (e *env) duration(key string, dst *time.Duration) {
	v := e.getenv(key, "")
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s: %v", key, err))
		return
	}
	*dst = d
}

func (e *env) boolean(key string, dst *bool) {
	v := e.getenv(key, "")
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("%s: %v", key, err))
		return
	}
	*dst = b
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
