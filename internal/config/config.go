package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "STEAM2025_CONFIG"
	listenAddrEnv = "STEAM2025_LISTEN_ADDR"
	logLevelEnv   = "STEAM2025_LOG_LEVEL"
	llmAPIKeyEnv  = "LLM_API_KEY"
	llmModelEnv   = "LLM_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Relays  []RelayConfig `yaml:"relays"`
	Scan    ScanConfig    `yaml:"scan"`
	LLM     LLMConfig     `yaml:"llm"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the consumer-facing HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RelayConfig describes one proxy service in the fallback chain. Envelope
// marks services that wrap the upstream body in a JSON status envelope.
type RelayConfig struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	Envelope bool   `yaml:"envelope"`
}

// ScanConfig parameterizes the discovery pipeline.
type ScanConfig struct {
	Pages                int `yaml:"pages"`
	PageSize             int `yaml:"pageSize"`
	DiscoveryConcurrency int `yaml:"discoveryConcurrency"`
	ClassifyConcurrency  int `yaml:"classifyConcurrency"`
	GroupDelayMS         int `yaml:"groupDelayMs"`
	MinReviewCount       int `yaml:"minReviewCount"`
}

// LLMConfig defines how to contact the chat-completions backend.
type LLMConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	MaxReviews     int    `yaml:"maxReviews"`
	MaxReviewChars int    `yaml:"maxReviewChars"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Relays) == 0 {
		cfg.Relays = defaultConfig().Relays
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Server.Addr != "" {
		base.Server = override.Server
	}

	if len(override.Relays) > 0 {
		base.Relays = override.Relays
	}

	if override.Scan.Pages > 0 {
		base.Scan.Pages = override.Scan.Pages
	}
	if override.Scan.PageSize > 0 {
		base.Scan.PageSize = override.Scan.PageSize
	}
	if override.Scan.DiscoveryConcurrency > 0 {
		base.Scan.DiscoveryConcurrency = override.Scan.DiscoveryConcurrency
	}
	if override.Scan.ClassifyConcurrency > 0 {
		base.Scan.ClassifyConcurrency = override.Scan.ClassifyConcurrency
	}
	if override.Scan.GroupDelayMS > 0 {
		base.Scan.GroupDelayMS = override.Scan.GroupDelayMS
	}
	if override.Scan.MinReviewCount > 0 {
		base.Scan.MinReviewCount = override.Scan.MinReviewCount
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.MaxReviews > 0 {
		base.LLM.MaxReviews = override.LLM.MaxReviews
	}
	if override.LLM.MaxReviewChars > 0 {
		base.LLM.MaxReviewChars = override.LLM.MaxReviewChars
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":8080"},
		Relays: []RelayConfig{
			{Name: "allorigins", Endpoint: "https://api.allorigins.win/get?url=", Envelope: true},
			{Name: "corsproxy", Endpoint: "https://corsproxy.io/?url="},
			{Name: "codetabs", Endpoint: "https://api.codetabs.com/v1/proxy?quest="},
		},
		Scan: ScanConfig{
			Pages:                20,
			PageSize:             50,
			DiscoveryConcurrency: 3,
			ClassifyConcurrency:  8,
			GroupDelayMS:         150,
			MinReviewCount:       1000,
		},
		LLM: LLMConfig{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			APIKey:         "",
			MaxReviews:     50,
			MaxReviewChars: 300,
		},
	}
}
