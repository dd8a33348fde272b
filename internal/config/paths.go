package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the config file name without extension.
const FileName = "alpha-mechanism"

// DirName is the per-user state directory under $HOME.
const DirName = ".alpha-mechanism"

var envReplacer = strings.NewReplacer(".", "_")

// HomeDir returns the per-user state directory. It falls back to the working
// directory when $HOME cannot be resolved.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultLogFile is where logs go unless log.file says otherwise.
func DefaultLogFile() string {
	return filepath.Join(HomeDir(), FileName+".log")
}

// DefaultConfigFile is the file `config init` writes.
func DefaultConfigFile() string {
	return filepath.Join(HomeDir(), FileName+".yaml")
}

// SearchPaths lists the directories searched for the config file, in order.
func SearchPaths() []string {
	return []string{".", HomeDir()}
}

// EnsureDirectories creates the directories the config refers to.
func EnsureDirectories(cfg *Config) error {
	dirs := []string{HomeDir()}
	if cfg.Log.File != "" {
		dirs = append(dirs, filepath.Dir(cfg.Log.File))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
