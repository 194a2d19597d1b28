package config

import (
	"os"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{}},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MinSimilarityAboveOne(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Assistant: AssistantConfig{MinSimilarity: 1.5},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_similarity > 1")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Knowledge.MaxDocuments != 100 {
		t.Errorf("expected MaxDocuments=100, got %d", cfg.Knowledge.MaxDocuments)
	}
	if cfg.Assistant.MaxResults != 3 {
		t.Errorf("expected MaxResults=3, got %d", cfg.Assistant.MaxResults)
	}
	if cfg.Assistant.MinSimilarity != 0.2 {
		t.Errorf("expected MinSimilarity=0.2, got %v", cfg.Assistant.MinSimilarity)
	}
	if cfg.Assistant.ExternalTimeoutSec != 10 {
		t.Errorf("expected ExternalTimeoutSec=10, got %d", cfg.Assistant.ExternalTimeoutSec)
	}
	if cfg.Assistant.QueryLogTTLDays != 90 {
		t.Errorf("expected QueryLogTTLDays=90, got %d", cfg.Assistant.QueryLogTTLDays)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Knowledge: KnowledgeConfig{MaxDocuments: 50},
		Assistant: AssistantConfig{MinSimilarity: 0.35},
	}
	cfg.ApplyDefaults()

	if cfg.Knowledge.MaxDocuments != 50 {
		t.Errorf("expected MaxDocuments=50, got %d", cfg.Knowledge.MaxDocuments)
	}
	if cfg.Assistant.MinSimilarity != 0.35 {
		t.Errorf("expected MinSimilarity=0.35, got %v", cfg.Assistant.MinSimilarity)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("WELLSPRING_TEST_KEY", "secret")
	defer os.Unsetenv("WELLSPRING_TEST_KEY")

	tests := []struct {
		in   string
		want string
	}{
		{"api_key: ${WELLSPRING_TEST_KEY}", "api_key: secret"},
		{"addr: ${WELLSPRING_TEST_MISSING:-localhost:6379}", "addr: localhost:6379"},
		{"plain: value", "plain: value"},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
