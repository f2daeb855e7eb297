package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings are the dashboard presentation knobs. They live in an optional
// YAML file so chart defaults can change without a rebuild.
type Settings struct {
	PageTitle  string `yaml:"page_title" validate:"required"`
	Theme      string `yaml:"theme" validate:"required"`
	TopN       int    `yaml:"top_n" validate:"gte=1,lte=25"`
	ShareTopN  int    `yaml:"share_top_n" validate:"gte=1,lte=10"`
	SampleRows int    `yaml:"sample_rows" validate:"gte=1,lte=1000"`
}

// DefaultSettings returns the built-in presentation defaults.
func DefaultSettings() Settings {
	return Settings{
		PageTitle:  "NYC Subway Ridership Dashboard",
		Theme:      "white",
		TopN:       10,
		ShareTopN:  5,
		SampleRows: 100,
	}
}

// LoadSettings reads and validates the settings file. An empty path returns
// the defaults; a present but invalid file is an error.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading dashboard settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parsing dashboard settings: %w", err)
	}
	if err := validator.New().Struct(settings); err != nil {
		return Settings{}, fmt.Errorf("invalid dashboard settings: %w", err)
	}
	return settings, nil
}
