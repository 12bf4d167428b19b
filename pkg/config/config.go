// Package config loads and validates the advisor configuration from a
// YAML file. The loaded config is cached globally; Parse can be used to
// read a file without touching the cache.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/classification"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/transcription"
)

// AdvisorConfig is the root configuration.
type AdvisorConfig struct {
	Server        ServerConfig             `yaml:"server"`
	Logging       LoggingConfig            `yaml:"logging"`
	Store         store.Config             `yaml:"store"`
	Models        ModelsConfig             `yaml:"models"`
	Ensemble      EnsembleConfig           `yaml:"ensemble"`
	Transcription transcription.HTTPConfig `yaml:"transcription"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig configures the log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// ModelsConfig lists the candidate model backends, tried in order.
type ModelsConfig struct {
	Embedding []classification.EmbeddingCandidate `yaml:"embedding"`
	ZeroShot  []classification.ZeroShotCandidate  `yaml:"zero_shot"`
}

// EnsembleConfig configures the signal weights.
type EnsembleConfig struct {
	KeywordWeight   *float64 `yaml:"keyword_weight"`
	EmbeddingWeight *float64 `yaml:"embedding_weight"`
	ZeroShotWeight  *float64 `yaml:"zero_shot_weight"`
}

// Weights resolves the ensemble weights, applying defaults for any left
// unset.
func (e EnsembleConfig) Weights() classification.Weights {
	w := classification.DefaultWeights()
	if e.KeywordWeight != nil {
		w.Keyword = *e.KeywordWeight
	}
	if e.EmbeddingWeight != nil {
		w.Embedding = *e.EmbeddingWeight
	}
	if e.ZeroShotWeight != nil {
		w.ZeroShot = *e.ZeroShotWeight
	}
	return w
}

const defaultServerPort = 8080

var (
	config     *AdvisorConfig
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the YAML file once and caches it
// globally.
func Load(configPath string) (*AdvisorConfig, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses a YAML config file without touching the global cache.
func Parse(configPath string) (*AdvisorConfig, error) {
	// Resolve symlinks to handle Kubernetes ConfigMap mounts.
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AdvisorConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the cached configuration, or nil before Load succeeds.
func Get() *AdvisorConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// Replace swaps the globally cached config. Safe for concurrent readers.
func Replace(cfg *AdvisorConfig) {
	configMu.Lock()
	config = cfg
	configErr = nil
	configMu.Unlock()
}

// Default returns a config with all defaults applied and no file read.
func Default() *AdvisorConfig {
	cfg := &AdvisorConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AdvisorConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = store.MemoryBackend
	}
}

func validate(cfg *AdvisorConfig) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", cfg.Server.Port)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", cfg.Logging.Level)
	}

	if err := store.ValidateConfig(cfg.Store); err != nil {
		return err
	}

	for i, cand := range cfg.Models.Embedding {
		if cand.Name == "" || cand.Model == "" {
			return fmt.Errorf("embedding candidate %d needs name and model", i)
		}
	}
	for i, cand := range cfg.Models.ZeroShot {
		if cand.Name == "" || cand.URL == "" {
			return fmt.Errorf("zero_shot candidate %d needs name and url", i)
		}
	}

	w := cfg.Ensemble.Weights()
	if w.Keyword < 0 || w.Embedding < 0 || w.ZeroShot < 0 {
		return fmt.Errorf("ensemble weights must be non-negative")
	}
	if w.Keyword == 0 && w.Embedding == 0 && w.ZeroShot == 0 {
		return fmt.Errorf("at least one ensemble weight must be positive")
	}
	return nil
}
