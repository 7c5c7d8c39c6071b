package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds resolved configuration values after merging file, env, and flags.
type Config struct {
	Model           string `json:"model,omitempty"`
	BackendURL      string `json:"backendURL,omitempty"`
	MaxHistoryTurns int    `json:"maxHistoryTurns,omitempty"`

	SDXLURL        string `json:"sdxlURL,omitempty"`
	ImageProvider  string `json:"imageProvider,omitempty"`
	ImageModel     string `json:"imageModel,omitempty"`
	OutputDir      string `json:"outputDir,omitempty"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Steps          int    `json:"steps,omitempty"`

	S3Bucket  string `json:"s3Bucket,omitempty"`
	S3Prefix  string `json:"s3Prefix,omitempty"`
	Region    string `json:"region,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`

	// Not persisted to file; sourced from env only.
	OpenAIAPIKey string `json:"-"`
}

// Overrides represents optional overrides from env or flags.
// Only non-nil pointers are applied during merge.
type Overrides struct {
	Model           *string
	BackendURL      *string
	MaxHistoryTurns *int
	SDXLURL         *string
	ImageProvider   *string
	ImageModel      *string
	OutputDir       *string
	NegativePrompt  *string
	Width           *int
	Height          *int
	Steps           *int
	S3Bucket        *string
	S3Prefix        *string
	Region          *string
	Overwrite       *bool
}

func Default() Config {
	return Config{
		Model:           "mistral",
		BackendURL:      "http://127.0.0.1:11434",
		MaxHistoryTurns: 5,
		SDXLURL:         "http://127.0.0.1:7860/api",
		ImageProvider:   "sdxl",
		ImageModel:      "dall-e-3",
		OutputDir:       "sdxl-outputs",
		NegativePrompt:  "low quality, blurry, distorted",
		Width:           768,
		Height:          1024,
		Steps:           30,
		S3Prefix:        "lokai",
	}
}

// LoadFile reads a JSON config. If file not found, returns defaults and no error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// FromEnv reads env vars and returns overrides and the OpenAI key.
func FromEnv() (Overrides, string) {
	var ov Overrides

	if v, ok := os.LookupEnv("LOKAI_MODEL"); ok {
		ov.Model = &v
	}
	if v, ok := os.LookupEnv("LOKAI_BACKEND_URL"); ok {
		ov.BackendURL = &v
	}
	if v, ok := os.LookupEnv("LOKAI_MAX_HISTORY_TURNS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			ov.MaxHistoryTurns = &n
		}
	}
	if v, ok := os.LookupEnv("LOKAI_SDXL_URL"); ok {
		ov.SDXLURL = &v
	}
	if v, ok := os.LookupEnv("LOKAI_IMAGE_PROVIDER"); ok {
		ov.ImageProvider = &v
	}
	if v, ok := os.LookupEnv("LOKAI_IMAGE_MODEL"); ok {
		ov.ImageModel = &v
	}
	if v, ok := os.LookupEnv("LOKAI_OUTPUT_DIR"); ok {
		ov.OutputDir = &v
	}
	if v, ok := os.LookupEnv("LOKAI_OVERWRITE"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Overwrite = &b
		}
	}
	if v, ok := os.LookupEnv("AWS_S3_BUCKET"); ok {
		ov.S3Bucket = &v
	}
	if v, ok := os.LookupEnv("AWS_S3_PREFIX"); ok {
		ov.S3Prefix = &v
	}
	if v, ok := os.LookupEnv("AWS_REGION"); ok {
		ov.Region = &v
	}
	return ov, os.Getenv("OPENAI_API_KEY")
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return false, fmt.Errorf("empty bool")
	}
	if s == "1" || s == "t" || s == "true" || s == "y" || s == "yes" || s == "on" {
		return true, nil
	}
	if s == "0" || s == "f" || s == "false" || s == "n" || s == "no" || s == "off" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Merge applies overrides in order: file -> env -> flags.
func Merge(fileCfg Config, env Overrides, flags Overrides, apiKey string) Config {
	cfg := fileCfg

	apply := func(ov Overrides) {
		if ov.Model != nil {
			cfg.Model = *ov.Model
		}
		if ov.BackendURL != nil {
			cfg.BackendURL = *ov.BackendURL
		}
		if ov.MaxHistoryTurns != nil {
			cfg.MaxHistoryTurns = *ov.MaxHistoryTurns
		}
		if ov.SDXLURL != nil {
			cfg.SDXLURL = *ov.SDXLURL
		}
		if ov.ImageProvider != nil {
			cfg.ImageProvider = *ov.ImageProvider
		}
		if ov.ImageModel != nil {
			cfg.ImageModel = *ov.ImageModel
		}
		if ov.OutputDir != nil {
			cfg.OutputDir = *ov.OutputDir
		}
		if ov.NegativePrompt != nil {
			cfg.NegativePrompt = *ov.NegativePrompt
		}
		if ov.Width != nil {
			cfg.Width = *ov.Width
		}
		if ov.Height != nil {
			cfg.Height = *ov.Height
		}
		if ov.Steps != nil {
			cfg.Steps = *ov.Steps
		}
		if ov.S3Bucket != nil {
			cfg.S3Bucket = *ov.S3Bucket
		}
		if ov.S3Prefix != nil {
			cfg.S3Prefix = *ov.S3Prefix
		}
		if ov.Region != nil {
			cfg.Region = *ov.Region
		}
		if ov.Overwrite != nil {
			cfg.Overwrite = *ov.Overwrite
		}
	}

	apply(env)
	apply(flags)

	cfg.OpenAIAPIKey = apiKey
	return cfg
}

// Validation helpers
func ValidateForText(cfg Config) error {
	if cfg.BackendURL == "" {
		return errors.New("backend URL is required")
	}
	if cfg.Model == "" {
		return errors.New("model is required")
	}
	return nil
}

func ValidateForChat(cfg Config) error {
	if err := ValidateForText(cfg); err != nil {
		return err
	}
	if cfg.MaxHistoryTurns < 0 {
		return errors.New("max history turns must not be negative")
	}
	return nil
}

func ValidateForImage(cfg Config) error {
	switch cfg.ImageProvider {
	case "sdxl":
		if cfg.SDXLURL == "" {
			return errors.New("SDXL URL is required for the sdxl provider")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown image provider: %s", cfg.ImageProvider)
	}
	if cfg.OutputDir == "" {
		return errors.New("output directory is required")
	}
	return nil
}

func ValidateForPublish(cfg Config) error {
	if cfg.S3Bucket == "" {
		return errors.New("S3 bucket is required for publish")
	}
	if cfg.Region == "" {
		return errors.New("AWS region is required for publish")
	}
	return nil
}
