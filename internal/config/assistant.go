package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Assistant holds the tunables of the conversational assistant. Values
// missing from the YAML file keep their defaults.
type Assistant struct {
	SystemPrompt string          `yaml:"system_prompt"`
	Chat         RetrievalPolicy `yaml:"chat"`
	Search       RetrievalPolicy `yaml:"search"`
	Generation   Generation      `yaml:"generation"`
	Timeout      time.Duration   `yaml:"timeout"`
}

// RetrievalPolicy bounds a similarity search: at most Limit items, each with
// similarity >= Floor.
type RetrievalPolicy struct {
	Limit int     `yaml:"limit"`
	Floor float64 `yaml:"floor"`
}

type Generation struct {
	Temperature     float64 `yaml:"temperature"`
	TopK            int     `yaml:"top_k"`
	TopP            float64 `yaml:"top_p"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

func DefaultAssistant() Assistant {
	return Assistant{
		SystemPrompt: DefaultSystemPrompt,
		Chat:         RetrievalPolicy{Limit: 8, Floor: 0.3},
		Search:       RetrievalPolicy{Limit: 15, Floor: 0.5},
		Generation: Generation{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
		Timeout: 60 * time.Second,
	}
}

// LoadAssistant overlays the YAML file at path on the defaults. An empty
// path returns the defaults unchanged.
func LoadAssistant(path string) (Assistant, error) {
	cfg := DefaultAssistant()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read assistant config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse assistant config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (a Assistant) Validate() error {
	if a.SystemPrompt == "" {
		return errors.New("assistant config: system_prompt is empty")
	}
	for name, p := range map[string]RetrievalPolicy{"chat": a.Chat, "search": a.Search} {
		if p.Limit <= 0 {
			return fmt.Errorf("assistant config: %s.limit must be positive", name)
		}
		if p.Floor < 0 || p.Floor > 1 {
			return fmt.Errorf("assistant config: %s.floor must be within [0, 1]", name)
		}
	}
	if a.Generation.MaxOutputTokens <= 0 {
		return errors.New("assistant config: generation.max_output_tokens must be positive")
	}
	if a.Timeout <= 0 {
		return errors.New("assistant config: timeout must be positive")
	}
	return nil
}
