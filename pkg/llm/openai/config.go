package openai

import (
	"context"

	"github.com/deepdiagram/backend/pkg/llm"
)

type Config struct {
	ConfigName    string `toml:"name"`
	BaseURL       string `toml:"base_url,omitempty"`
	APIKey        string `toml:"api_key,omitempty"`
	APIKeyFromEnv string `toml:"api_key_env,omitempty"`
	ModelName     string `toml:"model_name"`
}

func (c *Config) Name() string {
	return c.ConfigName
}

func (c *Config) NewClient(ctx context.Context) (llm.Client, error) {
	return New(Options{
		BaseURL:       c.BaseURL,
		APIKey:        c.APIKey,
		APIKeyFromEnv: c.APIKeyFromEnv,
		Model:         c.ModelName,
	})
}
