package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/rocketscienceinc/tictactoe-window/internal/entity"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var ErrUnknownColorMode = errors.New("unknown color mode")

type Config struct {
	LogLevel    string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	DrawPolicy  string `yaml:"draw-policy" env:"DRAW_POLICY" env-default:"fixed"`
	Color       string `yaml:"color" env:"COLOR" env-default:"auto"`
	ClearScreen bool   `yaml:"clear-screen" env:"CLEAR_SCREEN"`
}

// MustLoad - load .env and config.yml, panics on failure.
func MustLoad(path string) *Config {
	config, err := Load(path, ".env")
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads the yaml file at path and then the environment, which wins over
// the file. Both the yaml file and the dotenv file are optional.
func Load(path, dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}

		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if _, err := that.GetDrawPolicy(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch strings.ToLower(that.Color) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid config: %w: %q", ErrUnknownColorMode, that.Color)
	}

	return nil
}

func (that *Config) GetDrawPolicy() (entity.DrawPolicy, error) {
	policy, err := entity.ParseDrawPolicy(that.DrawPolicy)
	if err != nil {
		return "", fmt.Errorf("draw-policy: %w", err)
	}

	return policy, nil
}
