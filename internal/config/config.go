package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port            int              `json:"port"`
	CORSAllowlist   []string         `json:"cors_allowlist"`
	AnalyzeWindowMS int              `json:"analyze_window_ms"`
	LogConfig       logger.LogConfig `json:"log_config"`
	AI              AIConfig         `json:"ai"`
	Transcript      TranscriptConfig `json:"transcript"`
	Upload          UploadConfig     `json:"upload"`
}

type AIConfig struct {
	Provider          string   `json:"provider"`
	Candidates        []string `json:"candidates"`
	LegacyFallback    string   `json:"legacy_fallback"`
	MaxInputChars     int      `json:"max_input_chars"`
	TimeoutSeconds    int      `json:"timeout_seconds"`
	ProbeDelayMS      int      `json:"probe_delay_ms"`
	SessionTTLMinutes int      `json:"session_ttl_minutes"`
	CacheSize         int      `json:"cache_size"`
}

type TranscriptConfig struct {
	BaseURL        string `json:"base_url"`
	Language       string `json:"language"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Retries        int    `json:"retries"`
}

type UploadConfig struct {
	MaxPDFBytes int64 `json:"max_pdf_bytes"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if len(cfg.AI.Candidates) == 0 {
		cfg.AI.Candidates = []string{
			"gemini-1.5-flash",
			"gemini-1.5-flash-8b",
			"gemini-1.5-pro",
		}
	}
	if cfg.AI.LegacyFallback == "" {
		cfg.AI.LegacyFallback = "gemini-pro"
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 25000
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.ProbeDelayMS == 0 {
		cfg.AI.ProbeDelayMS = 500
	}
	if cfg.AI.SessionTTLMinutes == 0 {
		cfg.AI.SessionTTLMinutes = 120
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 1000
	}
	if cfg.Transcript.BaseURL == "" {
		cfg.Transcript.BaseURL = "https://video.google.com/timedtext"
	}
	if cfg.Transcript.Language == "" {
		cfg.Transcript.Language = "en"
	}
	if cfg.Transcript.TimeoutSeconds == 0 {
		cfg.Transcript.TimeoutSeconds = 15
	}
	if cfg.Transcript.Retries == 0 {
		cfg.Transcript.Retries = 3
	}
	if cfg.Upload.MaxPDFBytes == 0 {
		cfg.Upload.MaxPDFBytes = 32 << 20
	}
	return &cfg, nil
}
