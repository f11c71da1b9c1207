package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string `yaml:"port"`
		FrontendOrigin string `yaml:"frontend_origin"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL          string `yaml:"ttl"`
		MaxQuestions int    `yaml:"max_questions"`
		MaxPages     int    `yaml:"max_pages"`
	} `yaml:"quiz"`
	LLM struct {
		Provider string `yaml:"provider"` // "openrouter", "openai", or "dummy"
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
		Model    string `yaml:"model"`
		Site     string `yaml:"site"`
		Title    string `yaml:"title"`
	} `yaml:"llm"`
	Client struct {
		APIBase       string `yaml:"api_base"`
		UploadTimeout string `yaml:"upload_timeout"`
	} `yaml:"client"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MaxQuestions returns the configured question cap or the default of 6.
func (c Config) MaxQuestions() int {
	if c.Quiz.MaxQuestions > 0 {
		return c.Quiz.MaxQuestions
	}
	return 6
}

// MaxPages returns the configured PDF page cap or the default of 5.
func (c Config) MaxPages() int {
	if c.Quiz.MaxPages > 0 {
		return c.Quiz.MaxPages
	}
	return 5
}

// Duration parses a duration string or returns the fallback if empty
// or malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
