package loaders

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// LoadSettings reads renderer settings from a TOML file.
// Keys missing from the file keep their default values.
func LoadSettings(path string) (renderer.Settings, error) {
	settings := renderer.DefaultSettings()

	expanded, err := homedir.Expand(path)
	if err != nil {
		return settings, fmt.Errorf("expanding %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing settings %s: %w", expanded, err)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings %s: %w", expanded, err)
	}
	return settings, nil
}

// SaveSettings writes settings as TOML
func SaveSettings(path string, settings renderer.Settings) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding %s: %w", path, err)
	}

	f, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(settings); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
