package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxPathLength = 4096

// PathHandler resolves the data paths given on the command line or in the
// config. A secure handler keeps them inside the vidr directories.
type PathHandler struct {
	// AllowedBaseDirs restricts paths to these trees; empty allows all.
	AllowedBaseDirs []string
	home            string
}

// NewSecurePathHandler allows ~/.vidr, ~/.config/vidr and the temp dir.
func NewSecurePathHandler() *PathHandler {
	home, _ := os.UserHomeDir()
	return &PathHandler{
		AllowedBaseDirs: []string{
			filepath.Join(home, ".vidr"),
			filepath.Join(home, ".config", "vidr"),
			os.TempDir(),
		},
		home: home,
	}
}

// NewPermissivePathHandler accepts any location.
func NewPermissivePathHandler() *PathHandler {
	home, _ := os.UserHomeDir()
	return &PathHandler{home: home}
}

// Clean expands a leading ~, makes path absolute and rejects traversal and
// paths outside the allowed trees.
func (ph *PathHandler) Clean(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > maxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", maxPathLength)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains null bytes")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if ph.home == "" {
			return "", fmt.Errorf("cannot expand ~ without a home directory")
		}
		path = filepath.Join(ph.home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}

	if !ph.allowed(abs) {
		return "", fmt.Errorf("path not within allowed directories: %v", ph.AllowedBaseDirs)
	}
	return abs, nil
}

func (ph *PathHandler) allowed(abs string) bool {
	if len(ph.AllowedBaseDirs) == 0 {
		return true
	}
	for _, base := range ph.AllowedBaseDirs {
		baseAbs, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(baseAbs, abs)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// DBPath validates the bbolt file path and creates its directory.
func (ph *PathHandler) DBPath(userPath string) (string, error) {
	return ph.filePath(userPath, filepath.Join(".vidr", "vidr.db"))
}

// ConfigPath validates the config file path.
func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	return ph.filePath(userPath, filepath.Join(".config", "vidr", "config.toml"))
}

// IndexPath validates the bleve index directory and creates its parent.
func (ph *PathHandler) IndexPath(userPath string) (string, error) {
	path, err := ph.withDefault(userPath, filepath.Join(".vidr", "index.bleve"))
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return path, nil
}

func (ph *PathHandler) filePath(userPath, def string) (string, error) {
	path, err := ph.withDefault(userPath, def)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return path, nil
}

func (ph *PathHandler) withDefault(userPath, def string) (string, error) {
	if userPath == "" {
		if ph.home == "" {
			return "", fmt.Errorf("no home directory for default path")
		}
		userPath = filepath.Join(ph.home, def)
	}
	return ph.Clean(userPath)
}
