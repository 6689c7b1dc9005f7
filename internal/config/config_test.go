package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3001 {
		t.Errorf("server port = %d, want 3001", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if cfg.AI.OpenAI.Model != "gpt-4" {
		t.Errorf("model = %q, want gpt-4", cfg.AI.OpenAI.Model)
	}
	// SSE 长连接不设写超时
	if cfg.Server.WriteTimeout != 0 {
		t.Errorf("write timeout = %d, want 0", cfg.Server.WriteTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AGENTIC_FACTORY_SERVER_PORT", "9090")
	t.Setenv("AGENTIC_FACTORY_LOG_LEVEL", "error")
	t.Setenv("AGENTIC_FACTORY_AI_OPENAI_APIKEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %q, want error", cfg.Log.Level)
	}
	if cfg.AI.OpenAI.APIKey != "sk-test" {
		t.Errorf("api key = %q, want sk-test", cfg.AI.OpenAI.APIKey)
	}
}

func TestGetDSN(t *testing.T) {
	c := &DatabaseConfig{
		Host: "db", Port: 5432, User: "app", Password: "secret",
		DBName: "agentic_factory", SSLMode: "disable",
	}

	want := "host=db port=5432 user=app password=secret dbname=agentic_factory sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
