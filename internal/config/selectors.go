package config

import (
	"fmt"
	"os"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// LoadSelectors loads a selectors YAML file and validates it.
func LoadSelectors(filePath string) (*SelectorsConfig, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("selectors file not found: %s: %w", filePath, err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open selectors file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close selectors file: %v\n", closeErr)
		}
	}()

	var selectors SelectorsConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&selectors); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if err := validateSelectors(&selectors); err != nil {
		return nil, err
	}

	return &selectors, nil
}

// validateSelectors requires every selector and checks that it compiles.
// goquery silently matches nothing on a malformed selector, which would
// surface later as a confusing missing-field error.
func validateSelectors(s *SelectorsConfig) error {
	fields := []struct {
		name  string
		value string
	}{
		{"card_container", s.CardContainer},
		{"title", s.Title},
		{"subtitle", s.Subtitle},
		{"location", s.Location},
		{"posted", s.Posted},
		{"apply_link", s.ApplyLink},
		{"content", s.Content},
	}

	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s is required", f.name)
		}
		if _, err := cascadia.ParseGroup(f.value); err != nil {
			return fmt.Errorf("%s: invalid selector %q: %w", f.name, f.value, err)
		}
	}

	return nil
}
