package config

import (
	_ "embed"
)

//go:embed defaults/cardtable.yaml
var defaultCardtableYAML []byte

//go:embed defaults/inventory.yaml
var defaultInventoryYAML []byte

// BuiltinLayouts lists the layouts shipped with the binary.
func BuiltinLayouts() []string {
	return []string{"cardtable", "inventory"}
}

// DefaultLayoutYAML returns the embedded YAML for a built-in layout, or nil
// for anything else.
func DefaultLayoutYAML(name string) []byte {
	switch name {
	case "cardtable":
		return defaultCardtableYAML
	case "inventory":
		return defaultInventoryYAML
	default:
		return nil
	}
}
