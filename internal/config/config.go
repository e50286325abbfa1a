// Package config loads CLI settings from defaults, an optional YAML file,
// an optional .env file and STRUCTURA_ environment variables, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tsawler/structura"
	"github.com/tsawler/structura/logger"
)

// EnvPrefix is the prefix of every environment variable read.
const EnvPrefix = "STRUCTURA"

// Config holds all application configuration.
type Config struct {
	Pipeline PipelineConfig
	Log      LogConfig

	// Workers is the number of files processed at once. Zero means one
	// per available CPU.
	Workers int
}

// PipelineConfig holds document processing settings.
type PipelineConfig struct {
	IncludeHiddenLayers bool   `mapstructure:"include_hidden_layers"`
	PageChunkSize       int    `mapstructure:"page_chunk_size"`
	OCRLanguage         string `mapstructure:"ocr_language"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File, when set, receives a rotated copy of the log.
	File string `mapstructure:"file"`
}

// Load reads the configuration. configFile may be empty. Each env file is
// loaded into the process environment without overriding variables that
// are already set; with no env files an optional ./.env is tried.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Pipeline defaults
	v.SetDefault("pipeline.include_hidden_layers", false)
	v.SetDefault("pipeline.page_chunk_size", structura.DefaultPageChunkSize)
	v.SetDefault("pipeline.ocr_language", "eng")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("workers", 0)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Pipeline: PipelineConfig{
			IncludeHiddenLayers: v.GetBool("pipeline.include_hidden_layers"),
			PageChunkSize:       v.GetInt("pipeline.page_chunk_size"),
			OCRLanguage:         v.GetString("pipeline.ocr_language"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		Workers: v.GetInt("workers"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Pipeline.PageChunkSize < 0 {
		return fmt.Errorf("page_chunk_size must not be negative, got %d", c.Pipeline.PageChunkSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// ToOptions converts the pipeline settings to library options.
func (c *Config) ToOptions(log logger.Logger) structura.Options {
	return structura.Options{
		IncludeHiddenLayers:    c.Pipeline.IncludeHiddenLayers,
		SyntheticPageChunkSize: c.Pipeline.PageChunkSize,
		OCRLanguage:            c.Pipeline.OCRLanguage,
		Logger:                 log,
	}
}

// NewLogger builds the logger described by the log settings. Entries go to
// stderr and, when configured, to the log file.
func (c *Config) NewLogger() (logger.Logger, error) {
	paths := []string{"stderr"}
	if c.Log.File != "" {
		paths = append(paths, c.Log.File)
	}
	return logger.New(
		logger.WithLevel(c.Log.Level),
		logger.WithEncoding(c.Log.Format),
		logger.WithOutputPaths(paths...),
	)
}
