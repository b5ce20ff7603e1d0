package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadLayout resolves a layout by name.
// Search order: customPath -> ~/.gridforge/layouts/<name>.yaml -> ./layouts/<name>.yaml -> embedded default.
// The loaded layout is validated before it is returned.
func LoadLayout(name, customPath string) (Layout, error) {
	var l Layout

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return l, fmt.Errorf("failed to read layout %s: %w", customPath, err)
		}
		return parseLayout(data, customPath)
	}

	if userPath := userLayoutPath(name); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if parsed, err := parseLayout(data, userPath); err == nil {
				return parsed, nil
			}
		}
	}

	localPath := filepath.Join("layouts", name+".yaml")
	if data, err := os.ReadFile(localPath); err == nil {
		if parsed, err := parseLayout(data, localPath); err == nil {
			return parsed, nil
		}
	}

	data := DefaultLayoutYAML(name)
	if data == nil {
		return l, fmt.Errorf("config: unknown layout %q", name)
	}
	return parseLayout(data, "embedded "+name)
}

func parseLayout(data []byte, source string) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("failed to parse layout %s: %w", source, err)
	}
	if err := l.Validate(); err != nil {
		return l, err
	}
	return l, nil
}

// userLayoutPath returns the per-user layout path, or empty if home is
// unavailable.
func userLayoutPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gridforge", "layouts", name+".yaml")
}
