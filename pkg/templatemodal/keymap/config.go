// Package keymap provides key bindings for the template modal, with user
// overrides loaded from .calypso/keymap.json.
package keymap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config holds user key binding overrides.
type Config struct {
	// Bindings maps "context:key" to command ID
	// Example: {"list:l": "select", "global:ctrl+q": "quit"}
	Bindings map[string]string `json:"bindings"`
}

// ConfigPath returns the path to the keymap config file
func ConfigPath(baseDir string) string {
	return filepath.Join(baseDir, ".calypso", "keymap.json")
}

// LoadConfig loads key binding overrides from a JSON file.
// Returns an empty config if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Bindings: map[string]string{}}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Bindings == nil {
		cfg.Bindings = map[string]string{}
	}
	return &cfg, nil
}

// ApplyConfig applies user overrides to the registry. A binding without a
// context prefix applies globally.
func ApplyConfig(r *Registry, cfg *Config) {
	for binding, cmd := range cfg.Bindings {
		ctx, key, ok := strings.Cut(binding, ":")
		if !ok {
			ctx, key = string(ContextGlobal), binding
		}
		if ctx == "" || key == "" {
			continue
		}
		r.SetUserOverride(Context(ctx), key, Command(cmd))
	}
}
