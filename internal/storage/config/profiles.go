package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mpm/internal/domain"

	"gopkg.in/yaml.v3"
)

// ProfileConfig is the YAML representation of a profile
type ProfileConfig struct {
	Name      string          `yaml:"name"`
	ModpackID string          `yaml:"modpack_id"`
	Enabled   []domain.ModKey `yaml:"enabled"`
}

func profileDir(configDir, modpackID string) string {
	return filepath.Join(configDir, "profiles", modpackID)
}

func profilePath(configDir, modpackID, name string) string {
	return filepath.Join(profileDir(configDir, modpackID), name+".yaml")
}

// LoadProfile reads a profile from disk
func LoadProfile(configDir, modpackID, name string) (*domain.Profile, error) {
	data, err := os.ReadFile(profilePath(configDir, modpackID, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var cfg ProfileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	return &domain.Profile{
		Name:      cfg.Name,
		ModpackID: cfg.ModpackID,
		Enabled:   cfg.Enabled,
	}, nil
}

// SaveProfile writes a profile to disk
func SaveProfile(configDir string, profile *domain.Profile) error {
	if err := ValidateProfileName(profile.Name); err != nil {
		return err
	}
	if err := ValidateModpackID(profile.ModpackID); err != nil {
		return err
	}

	cfg := ProfileConfig{
		Name:      profile.Name,
		ModpackID: profile.ModpackID,
		Enabled:   profile.Enabled,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	dir := profileDir(configDir, profile.ModpackID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating profiles dir: %w", err)
	}

	if err := os.WriteFile(profilePath(configDir, profile.ModpackID, profile.Name), data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	return nil
}

// ListProfiles returns all profile names for a modpack
func ListProfiles(configDir, modpackID string) ([]string, error) {
	entries, err := os.ReadDir(profileDir(configDir, modpackID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles dir: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") {
			profiles = append(profiles, strings.TrimSuffix(name, ".yaml"))
		}
	}

	return profiles, nil
}

// DeleteProfile removes a profile from disk
func DeleteProfile(configDir, modpackID, name string) error {
	if err := os.Remove(profilePath(configDir, modpackID, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrProfileNotFound
		}
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

// ValidateProfileName rejects names that cannot be used as file names
func ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("profile name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid profile name %q", name)
	}
	return nil
}

// ValidateModpackID rejects modpack IDs that would not stay a single directory
// under the profiles dir
func ValidateModpackID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("modpack ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") || filepath.IsAbs(id) {
		return fmt.Errorf("invalid modpack ID %q", id)
	}
	return nil
}

// ExportProfile exports a profile to a portable format
func ExportProfile(profile *domain.Profile) ([]byte, error) {
	exported := domain.ExportedProfile{
		Name:      profile.Name,
		ModpackID: profile.ModpackID,
		Enabled:   profile.Enabled,
	}

	data, err := yaml.Marshal(&exported)
	if err != nil {
		return nil, fmt.Errorf("marshaling exported profile: %w", err)
	}

	return data, nil
}

// ImportProfile imports a profile from portable format
func ImportProfile(data []byte) (*domain.Profile, error) {
	var exported domain.ExportedProfile
	if err := yaml.Unmarshal(data, &exported); err != nil {
		return nil, fmt.Errorf("parsing exported profile: %w", err)
	}
	if err := ValidateProfileName(exported.Name); err != nil {
		return nil, err
	}
	if exported.ModpackID != "" {
		if err := ValidateModpackID(exported.ModpackID); err != nil {
			return nil, err
		}
	}

	return &domain.Profile{
		Name:      exported.Name,
		ModpackID: exported.ModpackID,
		Enabled:   exported.Enabled,
	}, nil
}
