// Package config loads the TOML configuration from the user config dir
// and resolves model backends from it.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/deepdiagram/backend/pkg/llm"
	"github.com/deepdiagram/backend/pkg/llm/gemini"
	"github.com/deepdiagram/backend/pkg/llm/openai"
)

type ModelType string

const (
	ModelTypeOpenAI ModelType = "openai"
	ModelTypeGemini ModelType = "gemini"
)

type ModelConfig interface {
	Name() string
	NewClient(ctx context.Context) (llm.Client, error)
}

type Config struct {
	ModelConfigs []ModelConfig
	// ModelName selects the generation model; RouterModelName may name
	// a faster model for classification and defaults to ModelName.
	ModelName       string
	RouterModelName string
	ListenAddr      string
	DBPath          string
	LogLevel        string
	LogFormat       string
}

func (c *Config) MarshalTOML() ([]byte, error) {
	configs := []map[string]any{}
	for i, mc := range c.ModelConfigs {
		d, err := toml.Marshal(mc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %d-th config: %w", i, err)
		}
		m := map[string]any{}
		if err := toml.Unmarshal(d, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %d-th config: %w", i, err)
		}
		switch mc.(type) {
		case *openai.Config:
			m["type"] = ModelTypeOpenAI
		case *gemini.Config:
			m["type"] = ModelTypeGemini
		}
		configs = append(configs, m)
	}
	return toml.Marshal(map[string]any{
		"model_name":        c.ModelName,
		"router_model_name": c.RouterModelName,
		"listen_addr":       c.ListenAddr,
		"db_path":           c.DBPath,
		"loglevel":          c.LogLevel,
		"logformat":         c.LogFormat,
		"model_configs":     configs,
	})
}

func stringField(data map[string]any, key string, dst *string) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s: want string got %T", key, v)
	}
	*dst = s
	return nil
}

func (c *Config) UnmarshalTOML(input any) error {
	data, ok := input.(map[string]any)
	if !ok {
		return fmt.Errorf("type mismatched: want map[string]any got %T", input)
	}
	for key, dst := range map[string]*string{
		"model_name":        &c.ModelName,
		"router_model_name": &c.RouterModelName,
		"listen_addr":       &c.ListenAddr,
		"db_path":           &c.DBPath,
		"loglevel":          &c.LogLevel,
		"logformat":         &c.LogFormat,
	} {
		if err := stringField(data, key, dst); err != nil {
			return err
		}
	}

	modelsData, ok := data["model_configs"]
	if !ok {
		return nil
	}
	models, ok := modelsData.([]map[string]any)
	if !ok {
		return fmt.Errorf("model_configs: want []map[string]any got %T", modelsData)
	}
	for i, modelConfig := range models {
		mtData, ok := modelConfig["type"]
		if !ok {
			return fmt.Errorf("missing field type for model config")
		}
		mtStr, ok := mtData.(string)
		if !ok {
			return fmt.Errorf("type mismatch for type field: want string got %T", mtData)
		}
		marshaled, err := toml.Marshal(modelConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal %d-th config: %w", i, err)
		}
		switch ModelType(mtStr) {
		case ModelTypeOpenAI:
			openaiConfig := &openai.Config{}
			if err := toml.Unmarshal(marshaled, openaiConfig); err != nil {
				return fmt.Errorf("failed to parse %d-th config: %w", i, err)
			}
			c.ModelConfigs = append(c.ModelConfigs, openaiConfig)
		case ModelTypeGemini:
			geminiConfig := &gemini.Config{}
			if err := toml.Unmarshal(marshaled, geminiConfig); err != nil {
				return fmt.Errorf("failed to parse %d-th config: %w", i, err)
			}
			c.ModelConfigs = append(c.ModelConfigs, geminiConfig)
		default:
			return fmt.Errorf("unknown model type %s", mtStr)
		}
	}
	return nil
}

// NewClient resolves the model config named name and opens its client.
func (c *Config) NewClient(ctx context.Context, name string) (llm.Client, error) {
	for _, modelConfig := range c.ModelConfigs {
		if modelConfig.Name() == name {
			return modelConfig.NewClient(ctx)
		}
	}
	return nil, fmt.Errorf("model config %q not found", name)
}

// Clients opens the generation client and the routing client. They are
// the same client unless router_model_name names another config.
func (c *Config) Clients(ctx context.Context) (routerClient, client llm.Client, err error) {
	client, err = c.NewClient(ctx, c.ModelName)
	if err != nil {
		return nil, nil, err
	}
	routerClient = client
	if c.RouterModelName != "" && c.RouterModelName != c.ModelName {
		routerClient, err = c.NewClient(ctx, c.RouterModelName)
		if err != nil {
			return nil, nil, err
		}
	}
	return routerClient, client, nil
}

func defaultConfig() *Config {
	return &Config{
		ModelConfigs: []ModelConfig{
			&openai.Config{
				ConfigName:    "openai",
				ModelName:     "gpt-4o-mini",
				APIKeyFromEnv: "OPENAI_API_KEY",
			},
			&gemini.Config{
				ConfigName: "gemini",
				ModelName:  "gemini-2.5-flash",
			},
		},
		ModelName:  "openai",
		ListenAddr: ":8080",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads the config file, writing the defaults first when it does
// not exist yet.
func Load() (*Config, error) {
	config := defaultConfig()

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	configDir := filepath.Join(userConfigDir, "deepdiagram")
	if _, err := os.Stat(configDir); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	configFile := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(configFile); err != nil {
		if os.IsNotExist(err) {
			data, err := toml.Marshal(config)
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(configFile, data, 0644); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		loadedConfig := &Config{}
		if err := toml.Unmarshal(data, loadedConfig); err != nil {
			return nil, err
		}
		config = loadedConfig
	}
	return config, nil
}
