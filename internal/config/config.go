// Package config loads assistant configuration with precedence:
// defaults < config.toml < dotenv files < process environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"answerthere/internal/protocol"
)

type Config struct {
	Model   string        `toml:"model"`
	Verbose bool          `toml:"verbose"`
	Ollama  OllamaConfig  `toml:"ollama"`
	DB      DBConfig      `toml:"db"`
	Channel ChannelConfig `toml:"channel"`
}

type OllamaConfig struct {
	URL         string  `toml:"url"`
	Temperature float64 `toml:"temperature"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

// ChannelConfig points at the tool server process. An empty command means
// the assistant spawns its own built-in server ("<self> serve --db <path>").
type ChannelConfig struct {
	Command string `toml:"command"`
}

func Default() Config {
	return Config{
		Model: protocol.DefaultModel,
		Ollama: OllamaConfig{
			URL:         protocol.DefaultOllamaURL,
			Temperature: protocol.DefaultTemperature,
		},
		DB: DBConfig{Path: protocol.DefaultDBPath},
	}
}

type Options struct {
	Path string // config file path; missing file is not an error
}

func Load(opts Options) (Config, error) {
	if err := loadDotEnvPrecedence(); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		} else if _, err := toml.DecodeFile(opts.Path, &cfg); err != nil {
			return Config{}, err
		}
	}
	mergeEnv(&cfg)
	return cfg, nil
}

// loadDotEnvPrecedence loads .env then .env.local without overriding
// variables already present in the environment.
func loadDotEnvPrecedence() error {
	for _, name := range []string{".env", ".env.local"} {
		values, err := godotenv.Read(name)
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); !exists {
				if setErr := os.Setenv(k, v); setErr != nil {
					return setErr
				}
			}
		}
	}
	return nil
}

func mergeEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ANSWERTHERE_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("ANSWERTHERE_OLLAMA_URL")); v != "" {
		cfg.Ollama.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("ANSWERTHERE_TEMPERATURE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ollama.Temperature = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("ANSWERTHERE_DB")); v != "" {
		cfg.DB.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("ANSWERTHERE_CHANNEL_COMMAND")); v != "" {
		cfg.Channel.Command = v
	}
	if v := strings.TrimSpace(os.Getenv("ANSWERTHERE_VERBOSE")); v != "" {
		cfg.Verbose = v == "1" || strings.EqualFold(v, "true")
	}
}
