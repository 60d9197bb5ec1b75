// Package prefs stores local learner preferences (the display name shown in
// the drill client) in a small YAML file.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyDisplayName = "display_name"
	maxNameLen     = 64
)

// DefaultName is used when nothing has been saved.
const DefaultName = "Learner"

var ErrInvalidName = errors.New("prefs: display name must be 1-64 visible characters")

// Store is read once at Open; later changes go through SetDisplayName.
type Store struct {
	v    *viper.Viper
	path string
}

// DefaultPath is $XDG_CONFIG_HOME/certprep/prefs.yaml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "certprep", "prefs.yaml"), nil
}

// Open loads path if it exists. A missing file is an empty store.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read prefs %s: %w", path, err)
		}
	}
	return &Store{v: v, path: path}, nil
}

func (s *Store) DisplayName() string {
	if n := strings.TrimSpace(s.v.GetString(keyDisplayName)); n != "" {
		return n
	}
	return DefaultName
}

// SetDisplayName validates, stores and persists the name.
func (s *Store) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLen {
		return ErrInvalidName
	}
	s.v.Set(keyDisplayName, name)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return s.v.WriteConfigAs(s.path)
}
