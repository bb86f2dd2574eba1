package config

import (
	"testing"
)

// useTempConfig redirects the user config dir to a temp location so
// Save never touches the real one.
func useTempConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Channel != DefaultChannel {
		t.Errorf("Channel = %q, want %q", cfg.Channel, DefaultChannel)
	}
	if len(cfg.Credentials) != 0 {
		t.Errorf("Credentials = %+v, want none", cfg.Credentials)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	useTempConfig(t)

	cfg := &Config{Channel: "mychannel"}
	if err := cfg.AddCredential(Credential{Type: "gemini", APIKey: "key-1"}); err != nil {
		t.Fatalf("AddCredential() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Channel != "mychannel" {
		t.Errorf("Channel = %q, want %q", loaded.Channel, "mychannel")
	}
	if len(loaded.Credentials) != 1 {
		t.Fatalf("Credentials = %d, want 1", len(loaded.Credentials))
	}
	cred := loaded.Credentials[0]
	if cred.Type != "gemini" || cred.APIKey != "key-1" || !cred.Active {
		t.Errorf("credential = %+v, want active gemini key-1", cred)
	}
	if cred.ID == "" {
		t.Error("credential ID should be assigned")
	}
}

func TestAddCredentialActivation(t *testing.T) {
	useTempConfig(t)
	cfg := defaultConfig()

	// First credential becomes active implicitly.
	if err := cfg.AddCredential(Credential{Type: "gemini", APIKey: "g1"}); err != nil {
		t.Fatalf("AddCredential() error = %v", err)
	}
	if active := cfg.ActiveCredential(); active == nil || active.APIKey != "g1" {
		t.Fatalf("ActiveCredential = %+v, want g1", active)
	}

	// Second without Active keeps the first active.
	if err := cfg.AddCredential(Credential{Type: "openai", APIKey: "o1"}); err != nil {
		t.Fatalf("AddCredential() error = %v", err)
	}
	if active := cfg.ActiveCredential(); active.APIKey != "g1" {
		t.Errorf("ActiveCredential = %+v, want g1 still active", active)
	}

	// Explicitly active credential displaces the current one.
	if err := cfg.AddCredential(Credential{Type: "openai", APIKey: "o2", Active: true}); err != nil {
		t.Fatalf("AddCredential() error = %v", err)
	}
	if active := cfg.ActiveCredential(); active.APIKey != "o2" {
		t.Errorf("ActiveCredential = %+v, want o2", active)
	}

	count := 0
	for _, cred := range cfg.Credentials {
		if cred.Active {
			count++
		}
	}
	if count != 1 {
		t.Errorf("active credentials = %d, want exactly 1", count)
	}
}

func TestAddCredentialValidation(t *testing.T) {
	useTempConfig(t)
	cfg := defaultConfig()

	if err := cfg.AddCredential(Credential{Type: "mistral", APIKey: "x"}); err == nil {
		t.Error("unknown credential type should be rejected")
	}
	if err := cfg.AddCredential(Credential{Type: "gemini"}); err == nil {
		t.Error("empty api key should be rejected")
	}
	if len(cfg.Credentials) != 0 {
		t.Errorf("Credentials = %+v, want none stored", cfg.Credentials)
	}
}

func TestRemoveCredential(t *testing.T) {
	useTempConfig(t)
	cfg := defaultConfig()

	if err := cfg.AddCredential(Credential{ID: "a", Type: "gemini", APIKey: "g1"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddCredential(Credential{ID: "b", Type: "openai", APIKey: "o1"}); err != nil {
		t.Fatal(err)
	}

	// Removing the active credential promotes the next one.
	if err := cfg.RemoveCredential("a"); err != nil {
		t.Fatalf("RemoveCredential() error = %v", err)
	}
	if active := cfg.ActiveCredential(); active == nil || active.ID != "b" {
		t.Errorf("ActiveCredential = %+v, want b promoted", active)
	}

	if err := cfg.RemoveCredential("missing"); err == nil {
		t.Error("removing an unknown credential should fail")
	}
}

func TestSetCredentialActive(t *testing.T) {
	useTempConfig(t)
	cfg := defaultConfig()

	if err := cfg.AddCredential(Credential{ID: "a", Type: "gemini", APIKey: "g1"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddCredential(Credential{ID: "b", Type: "openai", APIKey: "o1"}); err != nil {
		t.Fatal(err)
	}

	if err := cfg.SetCredentialActive("b"); err != nil {
		t.Fatalf("SetCredentialActive() error = %v", err)
	}
	if active := cfg.ActiveCredential(); active.ID != "b" {
		t.Errorf("ActiveCredential = %+v, want b", active)
	}

	if err := cfg.SetCredentialActive("missing"); err == nil {
		t.Error("activating an unknown credential should fail")
	}
}

func TestKeyResolution(t *testing.T) {
	useTempConfig(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := defaultConfig()
	if got := cfg.GeminiKey(); got != "" {
		t.Errorf("GeminiKey with no source = %q, want empty", got)
	}

	// Environment fallback.
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	if got := cfg.GeminiKey(); got != "env-gemini" {
		t.Errorf("GeminiKey = %q, want env fallback", got)
	}

	// A stored credential wins over the environment.
	if err := cfg.AddCredential(Credential{Type: "gemini", APIKey: "stored-gemini"}); err != nil {
		t.Fatal(err)
	}
	if got := cfg.GeminiKey(); got != "stored-gemini" {
		t.Errorf("GeminiKey = %q, want stored credential", got)
	}

	// The openai key still falls through to any stored openai
	// credential even when a gemini credential is active.
	if err := cfg.AddCredential(Credential{Type: "openai", APIKey: "stored-openai"}); err != nil {
		t.Fatal(err)
	}
	if got := cfg.OpenAIKey(); got != "stored-openai" {
		t.Errorf("OpenAIKey = %q, want stored credential", got)
	}
}
