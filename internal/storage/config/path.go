// Package config provides configuration and profile file parsing and validation.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ParseYAMLPath resolves a YAML file path given on the command line and returns
// the cleaned absolute path if it points at an existing .yaml or .yml file.
func ParseYAMLPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("file does not exist")
		}
		return "", err
	}

	if info.IsDir() {
		return "", errors.New("path is a directory, not a file")
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if ext != ".yaml" && ext != ".yml" {
		return "", errors.New("file must have .yaml or .yml extension")
	}

	return abs, nil
}
