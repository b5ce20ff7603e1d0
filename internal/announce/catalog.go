// Package announce renders engine events into screen-reader announcement
// strings through a user-overridable message catalog.
package announce

import (
	"sort"
	"strings"
)

// Catalog maps message ids to templates. Templates interpolate named
// placeholders written as {name}; unknown placeholders are left verbatim so a
// typo in a user catalog is visible instead of silent.
type Catalog struct {
	Messages map[string]string `yaml:"messages"`
}

// Vars holds the placeholder values for one rendering.
type Vars map[string]string

// Render interpolates the template registered under id. Ids missing from a
// user catalog fall back per Merge, so a lookup miss here returns empty.
func (c Catalog) Render(id string, vars Vars) string {
	tpl, exists := c.Messages[id]
	if !exists {
		return ""
	}
	if len(vars) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(vars)*2)
	// Deterministic replacer construction; map iteration order must not
	// matter but stable output makes failures reproducible.
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// Merge overlays a user catalog on the defaults: every id the user omits
// keeps its default template.
func Merge(base, overlay Catalog) Catalog {
	out := Catalog{Messages: make(map[string]string, len(base.Messages))}
	for id, tpl := range base.Messages {
		out.Messages[id] = tpl
	}
	for id, tpl := range overlay.Messages {
		out.Messages[id] = tpl
	}
	return out
}
