// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
)

const (
	appName        = "pulsefeed"
	configFileName = "config.json"

	// DefaultChannel is the feed source when none is configured.
	DefaultChannel = "AzadStudioOfficial"
)

// Credential is one stored provider API key.
type Credential struct {
	ID     string `json:"id"`
	Type   string `json:"type"` // "gemini" or "openai"
	APIKey string `json:"api_key"`
	Active bool   `json:"active"`
}

// Config represents the application configuration.
type Config struct {
	Channel     string       `json:"channel"`
	Credentials []Credential `json:"credentials,omitempty"`
}

// Load loads configuration from the config file.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}

	return &cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// AddCredential validates and stores a new credential. The first
// credential, or one explicitly marked active, becomes the active one.
func (c *Config) AddCredential(cred Credential) error {
	if err := validateCredential(cred); err != nil {
		return err
	}
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}

	if len(c.Credentials) == 0 || cred.Active {
		for i := range c.Credentials {
			c.Credentials[i].Active = false
		}
		cred.Active = true
	}

	c.Credentials = append(c.Credentials, cred)
	return c.Save()
}

// RemoveCredential removes a credential by id.
func (c *Config) RemoveCredential(id string) error {
	idx := slices.IndexFunc(c.Credentials, func(cr Credential) bool {
		return cr.ID == id
	})
	if idx == -1 {
		return fmt.Errorf("credential not found: %s", id)
	}

	wasActive := c.Credentials[idx].Active
	c.Credentials = slices.Delete(c.Credentials, idx, idx+1)

	if wasActive && len(c.Credentials) > 0 {
		c.Credentials[0].Active = true
	}

	return c.Save()
}

// SetCredentialActive marks the credential with id as active.
func (c *Config) SetCredentialActive(id string) error {
	found := false
	for i := range c.Credentials {
		if c.Credentials[i].ID == id {
			c.Credentials[i].Active = true
			found = true
		} else {
			c.Credentials[i].Active = false
		}
	}
	if !found {
		return fmt.Errorf("credential not found: %s", id)
	}
	return c.Save()
}

// ActiveCredential returns the active credential, or nil.
func (c *Config) ActiveCredential() *Credential {
	for i := range c.Credentials {
		if c.Credentials[i].Active {
			cred := c.Credentials[i]
			return &cred
		}
	}
	return nil
}

// GeminiKey resolves the Gemini API key from the active credential,
// any stored gemini credential, or the environment.
func (c *Config) GeminiKey() string {
	return c.keyFor("gemini", "GEMINI_API_KEY")
}

// OpenAIKey resolves the OpenAI API key from the active credential,
// any stored openai credential, or the environment.
func (c *Config) OpenAIKey() string {
	return c.keyFor("openai", "OPENAI_API_KEY")
}

func (c *Config) keyFor(credType, envVar string) string {
	if active := c.ActiveCredential(); active != nil && active.Type == credType {
		return active.APIKey
	}
	for _, cred := range c.Credentials {
		if cred.Type == credType && cred.APIKey != "" {
			return cred.APIKey
		}
	}
	return os.Getenv(envVar)
}

func validateCredential(cred Credential) error {
	if cred.Type != "gemini" && cred.Type != "openai" {
		return fmt.Errorf("unknown credential type: %q", cred.Type)
	}
	if cred.APIKey == "" {
		return fmt.Errorf("api key required")
	}
	return nil
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

func defaultConfig() *Config {
	return &Config{Channel: DefaultChannel}
}
