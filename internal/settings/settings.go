// Package settings manages the SuperchargeAI capability grants in the
// user's Claude settings file. Grants are a fixed set added and removed
// with union semantics; everything else in the file is preserved.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/superchargeai/supercharge/internal/errors"
)

// Grants is the fixed capability set the plugin needs: its own CLI and
// write access inside the workspace tree.
var Grants = []string{
	"Bash(supercharge *)",
	"Write(.claude/SuperchargeAI/**)",
	"Edit(.claude/SuperchargeAI/**)",
}

// UserPath returns the path of the user-level settings file.
func UserPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSettingsRead, "resolving home directory", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// Add inserts the grant set into the settings file's permissions.allow
// list, creating the file if needed. Entries already present are left
// alone. Returns the entries newly added.
func Add(path string) ([]string, error) {
	settings, err := load(path)
	if err != nil {
		return nil, err
	}

	perms, _ := settings["permissions"].(map[string]any)
	if perms == nil {
		perms = map[string]any{}
		settings["permissions"] = perms
	}
	allow := toStrings(perms["allow"])

	present := make(map[string]bool, len(allow))
	for _, entry := range allow {
		present[entry] = true
	}

	var added []string
	for _, entry := range Grants {
		if !present[entry] {
			allow = append(allow, entry)
			added = append(added, entry)
		}
	}
	perms["allow"] = allow

	if err := save(path, settings); err != nil {
		return nil, err
	}
	return added, nil
}

// Remove deletes the grant set from the settings file, preserving every
// unrelated entry. Returns the number of entries removed. A missing
// file means nothing to remove.
func Remove(path string) (int, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, nil
	}

	settings, err := load(path)
	if err != nil {
		return 0, err
	}

	perms, _ := settings["permissions"].(map[string]any)
	if perms == nil {
		return 0, nil
	}
	allow := toStrings(perms["allow"])

	ours := make(map[string]bool, len(Grants))
	for _, entry := range Grants {
		ours[entry] = true
	}

	kept := make([]string, 0, len(allow))
	for _, entry := range allow {
		if !ours[entry] {
			kept = append(kept, entry)
		}
	}
	removed := len(allow) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	perms["allow"] = kept
	if err := save(path, settings); err != nil {
		return 0, err
	}
	return removed, nil
}

func load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSettingsRead, "reading "+path, err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSettingsRead, "parsing "+path, err).
			WithSuggestion("Fix the JSON syntax in " + path)
	}
	if settings == nil {
		settings = map[string]any{}
	}
	return settings, nil
}

func save(path string, settings map[string]any) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSettingsWrite, "encoding settings", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeSettingsWrite, "creating settings directory", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeSettingsWrite, "writing "+path, err)
	}
	return nil
}

// toStrings coerces a decoded JSON array to strings, dropping anything
// that is not a string.
func toStrings(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
