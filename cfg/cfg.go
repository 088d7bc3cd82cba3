package cfg

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Secret struct {
	value []byte
}

func NewSecret(s string) Secret {
	return Secret{value: []byte(s)}
}
func (s Secret) Value() string {
	return string(s.value)
}
func (s *Secret) Set(v string) {
	s.value = []byte(v)
}
func (s Secret) Wipe() {
	for i := range s.value {
		s.value[i] = 0
	}
}
func (s Secret) String() string {
	return "***REDACTED***"
}

type Cfg struct {
	APIKey            Secret
	APIKeyFromSecrets bool
	BaseURL           string
	Environment       string
	LogLevel          string
	DefaultURLDomain  string
	DefaultTextDomain string
	DefaultFileDomain string
	HistoryBackend    string
	HistoryPath       string
	RedisURL          string
	RedisUsername     string
	RedisPassword     Secret
	RedisTimeout      time.Duration
	RequestTimeout    time.Duration
	RequestRate       float64
	RequestBurst      int
	CacheSize         int
	CacheTTL          time.Duration
	DBQueryTimeout    time.Duration
}

func Load() (*Cfg, error) {
	c := &Cfg{}
	c.APIKey = NewSecret(getEnv("SEE_API_KEY", ""))
	c.APIKeyFromSecrets = getEnv("API_KEY_FROM_SECRETS", "false") == "true"
	c.BaseURL = strings.TrimRight(getEnv("SEE_BASE_URL", "https://s.ee/api/v1"), "/")
	c.Environment = getEnv("ENVIRONMENT", "development")
	c.LogLevel = getEnv("LOG_LEVEL", "info")
	c.DefaultURLDomain = getEnv("SEE_URL_DOMAIN", "")
	c.DefaultTextDomain = getEnv("SEE_TEXT_DOMAIN", "")
	c.DefaultFileDomain = getEnv("SEE_FILE_DOMAIN", "")
	c.HistoryBackend = getEnv("HISTORY_BACKEND", "sqlite")
	c.HistoryPath = getEnv("HISTORY_PATH", "seeshare.db")
	c.RedisURL = getEnv("REDIS_URL", "")
	c.RedisUsername = getEnv("REDIS_USERNAME", "")
	c.RedisPassword = NewSecret(getEnv("REDIS_PASSWORD", ""))
	var err error
	c.RedisTimeout, err = getDuration("REDIS_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	c.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	c.RequestRate, err = getFloat("REQUEST_RATE", 5)
	if err != nil {
		return nil, err
	}
	c.RequestBurst, err = getInt("REQUEST_BURST", 10)
	if err != nil {
		return nil, err
	}
	c.CacheSize, err = getInt("CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}
	c.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	c.DBQueryTimeout, err = getDuration("DB_QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func Validate(c *Cfg) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("SEE_BASE_URL must be an absolute http(s) URL")
	}
	if c.APIKey.Value() == "" && !c.APIKeyFromSecrets {
		return errors.New("SEE_API_KEY is required unless API_KEY_FROM_SECRETS=true")
	}
	switch c.HistoryBackend {
	case "sqlite":
		if c.HistoryPath == "" {
			return errors.New("HISTORY_PATH is required for the sqlite backend")
		}
	case "redis":
		if !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
			return errors.New("REDIS_URL must start with redis:// or rediss:// for the redis backend")
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q (expected sqlite or redis)", c.HistoryBackend)
	}
	if c.RequestRate <= 0 {
		return errors.New("REQUEST_RATE must be positive")
	}
	if c.RequestBurst <= 0 {
		return errors.New("REQUEST_BURST must be positive")
	}
	if c.CacheSize <= 0 {
		return errors.New("CACHE_SIZE must be positive")
	}
	if c.RequestTimeout < time.Second {
		return errors.New("REQUEST_TIMEOUT must be at least 1s")
	}
	return nil
}

func (c *Cfg) Wipe() {
	c.APIKey.Wipe()
	c.RedisPassword.Wipe()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
func getInt(key string, fallback int) (int, error) {
	s := getEnv(key, "")
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return v, nil
}
func getFloat(key string, fallback float64) (float64, error) {
	s := getEnv(key, "")
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	return v, nil
}
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := getEnv(key, "")
	if s == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return v, nil
}
