package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Script Script `yaml:"script"`
	Speech Speech `yaml:"speech"`
	Media  Media  `yaml:"media"`
	Cache  Cache  `yaml:"cache"`
	Export Export `yaml:"export"`
	Log    Log    `yaml:"log"`
	Paths  Paths  `yaml:"paths"`
}

type Script struct {
	GeminiModel  string  `yaml:"gemini_model"`
	SegmentCount int     `yaml:"segment_count"`
	Temperature  float64 `yaml:"temperature"`
}

type Speech struct {
	GeminiModel string `yaml:"gemini_model"`
	Voice       string `yaml:"voice"`
}

type Media struct {
	PlaceholderURL string `yaml:"placeholder_url"`
	ProxyBaseURL   string `yaml:"proxy_base_url"`
	ProxyWidth     int    `yaml:"proxy_width"`
	ProxyHeight    int    `yaml:"proxy_height"`
	SearchCX       string `yaml:"search_cx"`
}

type Cache struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	KeyPrefix     string `yaml:"key_prefix"`
}

type Export struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	FPS           int    `yaml:"fps"`
	CaptionHeight int    `yaml:"caption_height"`
	Format        string `yaml:"format"`
}

type Log struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"output_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Paths struct {
	Output string `yaml:"output"`
}

// Load reads config.yaml and returns a Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Script: Script{
			GeminiModel:  "gemini-2.5-flash-preview-09-2025",
			SegmentCount: 4,
			Temperature:  0.7,
		},
		Speech: Speech{
			GeminiModel: "gemini-2.5-flash-preview-tts",
			Voice:       "Zephyr",
		},
		Media: Media{
			PlaceholderURL: "https://via.placeholder.com/800x600?text=No+Media",
			ProxyBaseURL:   "https://wsrv.nl/",
			ProxyWidth:     1280,
			ProxyHeight:    720,
		},
		Cache: Cache{
			RedisAddr: "localhost:6379",
			KeyPrefix: "media_cache",
		},
		Export: Export{
			Width:         1280,
			Height:        720,
			FPS:           30,
			CaptionHeight: 120,
			Format:        "webm",
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Paths: Paths{
			Output: "output",
		},
	}
}
