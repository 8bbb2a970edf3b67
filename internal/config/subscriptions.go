package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type subscriptionsFile struct {
	Uploaders []string `toml:"uploaders"`
}

// LoadSubscriptions reads the uploader names listed in a subscriptions file
// (`uploaders = ["a", "b"]`). A missing file yields no uploaders.
func LoadSubscriptions(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	var f subscriptionsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading subscriptions %s: %w", path, err)
	}
	return f.Uploaders, nil
}

// SaveSubscriptions writes uploaders to path in the format LoadSubscriptions
// reads.
func SaveSubscriptions(path string, uploaders []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating subscriptions directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing subscriptions %s: %w", path, err)
	}
	defer out.Close()

	if uploaders == nil {
		uploaders = []string{}
	}
	if err := toml.NewEncoder(out).Encode(subscriptionsFile{Uploaders: uploaders}); err != nil {
		return fmt.Errorf("encoding subscriptions: %w", err)
	}
	return nil
}
