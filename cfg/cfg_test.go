package cfg

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SEE_API_KEY", "test-key")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.BaseURL != "https://s.ee/api/v1" {
		t.Errorf("unexpected default base URL: %s", c.BaseURL)
	}
	if c.HistoryBackend != "sqlite" {
		t.Errorf("unexpected default backend: %s", c.HistoryBackend)
	}
	if c.RequestTimeout != 60*time.Second {
		t.Errorf("unexpected default timeout: %v", c.RequestTimeout)
	}
	if err := Validate(c); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadTrimsTrailingSlashes(t *testing.T) {
	t.Setenv("SEE_API_KEY", "k")
	t.Setenv("SEE_BASE_URL", "https://example.com/api/v1///")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.BaseURL != "https://example.com/api/v1" {
		t.Errorf("trailing slashes not trimmed: %s", c.BaseURL)
	}
}

func TestValidateRejectsMissingKey(t *testing.T) {
	c := &Cfg{
		BaseURL:        "https://s.ee/api/v1",
		HistoryBackend: "sqlite",
		HistoryPath:    "x.db",
		RequestRate:    5,
		RequestBurst:   10,
		CacheSize:      64,
		RequestTimeout: time.Minute,
	}
	if err := Validate(c); err == nil {
		t.Error("expected error for missing API key")
	}
	c.APIKeyFromSecrets = true
	if err := Validate(c); err != nil {
		t.Errorf("API_KEY_FROM_SECRETS should allow empty key: %v", err)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	c := &Cfg{
		APIKey:         NewSecret("k"),
		BaseURL:        "https://s.ee/api/v1",
		HistoryBackend: "dynamo",
		RequestRate:    5,
		RequestBurst:   10,
		CacheSize:      64,
		RequestTimeout: time.Minute,
	}
	if err := Validate(c); err == nil {
		t.Error("expected error for unknown backend")
	}
	c.HistoryBackend = "redis"
	if err := Validate(c); err == nil {
		t.Error("redis backend without REDIS_URL should fail")
	}
	c.RedisURL = "redis://localhost:6379"
	if err := Validate(c); err != nil {
		t.Errorf("redis backend with url should pass: %v", err)
	}
}

func TestSecretRedacts(t *testing.T) {
	s := NewSecret("topsecret")
	if got := s.String(); got != "***REDACTED***" {
		t.Errorf("secret leaked: %s", got)
	}
	if s.Value() != "topsecret" {
		t.Error("Value should return the secret")
	}
	s.Wipe()
	if s.Value() == "topsecret" {
		t.Error("Wipe did not zero the secret")
	}
}
