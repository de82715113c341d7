package tutor

import "testing"

func clearTutorEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"GLOSSA_TUTOR_PROVIDER",
		"GLOSSA_ANTHROPIC_API_KEY", "GLOSSA_ANTHROPIC_MODEL",
		"GLOSSA_OPENAI_API_KEY", "GLOSSA_OPENAI_MODEL", "GLOSSA_OPENAI_BASE_URL",
		"GLOSSA_GEMINI_API_KEY", "GLOSSA_GEMINI_MODEL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(v, "")
	}
}

func TestConfigFromEnv_Unconfigured(t *testing.T) {
	clearTutorEnv(t)

	cfg, ok := ConfigFromEnv()
	if ok {
		t.Error("no keys set should report unconfigured")
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("default provider = %q, want anthropic", cfg.Provider)
	}
}

func TestConfigFromEnv_ExplicitProvider(t *testing.T) {
	clearTutorEnv(t)
	t.Setenv("GLOSSA_TUTOR_PROVIDER", "openai")
	t.Setenv("GLOSSA_OPENAI_API_KEY", "sk-test")
	t.Setenv("GLOSSA_OPENAI_MODEL", "gpt-4o")
	t.Setenv("GLOSSA_OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg, ok := ConfigFromEnv()
	if !ok {
		t.Fatal("configured provider should report ok")
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("provider config not picked up: %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("model/base URL not picked up: %+v", cfg.OpenAI)
	}
}

func TestConfigFromEnv_FallsBackToStandardKeyVars(t *testing.T) {
	clearTutorEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-test")

	cfg, ok := ConfigFromEnv()
	if !ok {
		t.Fatal("standard key variable should configure the matching provider")
	}
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-test" {
		t.Errorf("gemini fallback not applied: provider=%q key=%q", cfg.Provider, cfg.Gemini.APIKey)
	}
}

func TestConfigFromEnv_MockNeedsNoKey(t *testing.T) {
	clearTutorEnv(t)
	t.Setenv("GLOSSA_TUTOR_PROVIDER", "mock")

	if _, ok := ConfigFromEnv(); !ok {
		t.Error("mock provider should need no API key")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"openai without key", Config{Provider: "openai"}, true},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"mock", Config{Provider: "mock"}, false},
		{"unknown", Config{Provider: "cohere"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		in     string
		models map[string]string
		want   string
	}{
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"gemini-flash", geminiModels, "gemini-2.0-flash"},
		{"claude-haiku-4-5-20251001", anthropicModels, "claude-haiku-4-5-20251001"},
		{"some-raw-model-id", openaiModels, "some-raw-model-id"},
	}

	for _, tt := range tests {
		if got := resolveModel(tt.in, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
