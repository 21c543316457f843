package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/deepdiagram/backend/pkg/llm"
)

type Config struct {
	ConfigName string `toml:"name"`
	ModelName  string `toml:"model_name"`
	APIKey     string `toml:"api_key,omitempty"`
	Backend    string `toml:"backend,omitempty"`
	Project    string `toml:"project,omitempty"`
	Location   string `toml:"location,omitempty"`
}

func (c *Config) Name() string {
	return c.ConfigName
}

func (c *Config) NewClient(ctx context.Context) (llm.Client, error) {
	backend := genai.BackendUnspecified
	if c.Backend == genai.BackendGeminiAPI.String() {
		backend = genai.BackendGeminiAPI
	} else if c.Backend == genai.BackendVertexAI.String() {
		backend = genai.BackendVertexAI
	}
	return New(ctx, c.ModelName, &genai.ClientConfig{
		APIKey:   c.APIKey,
		Backend:  backend,
		Project:  c.Project,
		Location: c.Location,
	})
}
