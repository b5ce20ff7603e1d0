package announce

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/messages.yaml
var defaultMessagesYAML []byte

// DefaultCatalog returns the embedded message catalog.
func DefaultCatalog() Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultMessagesYAML, &c); err != nil {
		panic(fmt.Sprintf("announce: embedded catalog is invalid: %v", err))
	}
	return c
}

// Load resolves the message catalog.
// Search order: customPath -> ~/.gridforge/messages.yaml -> ./configs/messages.yaml -> embedded default.
// A user catalog only needs the ids it overrides; the rest keep defaults.
func Load(customPath string) (Catalog, error) {
	base := DefaultCatalog()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return base, fmt.Errorf("failed to read messages %s: %w", customPath, err)
		}
		var user Catalog
		if err := yaml.Unmarshal(data, &user); err != nil {
			return base, fmt.Errorf("failed to parse messages %s: %w", customPath, err)
		}
		return Merge(base, user), nil
	}

	if userPath := userMessagesPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			var user Catalog
			if err := yaml.Unmarshal(data, &user); err == nil {
				return Merge(base, user), nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "messages.yaml")); err == nil {
		var user Catalog
		if err := yaml.Unmarshal(data, &user); err == nil {
			return Merge(base, user), nil
		}
	}

	return base, nil
}

// userMessagesPath returns the per-user catalog path, or empty if home is
// unavailable.
func userMessagesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gridforge", "messages.yaml")
}
