// Package config loads project settings: the per-project config file, the
// starter page templates file, and process settings from the environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
)

const configFile = ".calypso/config.json"
const lockFile = ".calypso/config.json.lock"

// Project is the per-project configuration written by `calypso init`
type Project struct {
	TemplatesFile string `json:"templates_file,omitempty"`
	StateFile     string `json:"state_file,omitempty"`
	PostID        int64  `json:"post_id,omitempty"`
	SiteID        int64  `json:"site_id,omitempty"`
}

// Load reads the project config; a missing file yields an empty config
func Load(baseDir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, err
	}

	var cfg Project
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the project config atomically (temp file + rename)
func Save(baseDir string, cfg *Project) error {
	configPath := filepath.Join(baseDir, configFile)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, configPath)
}

// Update applies fn to the project config under an exclusive lock
func Update(baseDir string, fn func(cfg *Project)) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		fn(cfg)
		return Save(baseDir, cfg)
	})
}

// withConfigLock serializes access to config.json using flock
func withConfigLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// SetPostID records the post the template modal edits by default
func SetPostID(baseDir string, id int64) error {
	return Update(baseDir, func(cfg *Project) { cfg.PostID = id })
}

// ResolvePath makes p absolute relative to baseDir
func ResolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
