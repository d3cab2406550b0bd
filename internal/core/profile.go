package core

import (
	"context"
	"errors"
	"fmt"

	"mpm/internal/domain"
	"mpm/internal/storage/config"
)

// ProfileStore is the part of the modpack store profiles need
type ProfileStore interface {
	ListMods(ctx context.Context, modpackID string) ([]domain.Mod, error)
	SetModsEnabled(ctx context.Context, modpackID string, enabledIDs []string) error
}

// ProfileManager saves and restores named sets of enabled mods per modpack
type ProfileManager struct {
	configDir string
	store     ProfileStore
}

// NewProfileManager creates a new profile manager
func NewProfileManager(configDir string, store ProfileStore) *ProfileManager {
	return &ProfileManager{
		configDir: configDir,
		store:     store,
	}
}

// Save records the currently enabled mods of a modpack under name, replacing
// any profile with the same name.
func (pm *ProfileManager) Save(ctx context.Context, modpackID, name string) (*domain.Profile, error) {
	mods, err := pm.store.ListMods(ctx, modpackID)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		Name:      name,
		ModpackID: modpackID,
		Enabled:   []domain.ModKey{},
	}
	for i := range mods {
		if mods[i].Enabled {
			profile.Enabled = append(profile.Enabled, keyOf(mods[i]))
		}
	}

	if err := config.SaveProfile(pm.configDir, profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return profile, nil
}

// Apply enables the mods listed in a profile and disables the rest. It returns
// the profile entries that no longer match any mod in the modpack.
func (pm *ProfileManager) Apply(ctx context.Context, modpackID, name string) ([]domain.ModKey, error) {
	profile, err := config.LoadProfile(pm.configDir, modpackID, name)
	if err != nil {
		return nil, err
	}

	mods, err := pm.store.ListMods(ctx, modpackID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]string, len(mods))
	for _, m := range mods {
		byKey[modKey(m)] = m.ID
	}

	var enabled []string
	var missing []domain.ModKey
	for _, k := range profile.Enabled {
		id, ok := byKey[keyString(k)]
		if !ok {
			missing = append(missing, k)
			continue
		}
		enabled = append(enabled, id)
	}

	if err := pm.store.SetModsEnabled(ctx, modpackID, enabled); err != nil {
		return nil, fmt.Errorf("applying profile %s: %w", name, err)
	}
	return missing, nil
}

// List returns all profiles for a modpack
func (pm *ProfileManager) List(modpackID string) ([]*domain.Profile, error) {
	names, err := config.ListProfiles(pm.configDir, modpackID)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(names))
	for _, name := range names {
		profile, err := config.LoadProfile(pm.configDir, modpackID, name)
		if err != nil {
			continue // Skip profiles that can't be loaded
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Get retrieves a specific profile
func (pm *ProfileManager) Get(modpackID, name string) (*domain.Profile, error) {
	return config.LoadProfile(pm.configDir, modpackID, name)
}

// Delete removes a profile
func (pm *ProfileManager) Delete(modpackID, name string) error {
	return config.DeleteProfile(pm.configDir, modpackID, name)
}

// Export exports a profile to a portable format
func (pm *ProfileManager) Export(modpackID, name string) ([]byte, error) {
	profile, err := config.LoadProfile(pm.configDir, modpackID, name)
	if err != nil {
		return nil, err
	}

	return config.ExportProfile(profile)
}

// Import imports a profile from portable format. A non-empty modpackID
// retargets the profile at that modpack.
func (pm *ProfileManager) Import(data []byte, modpackID string) (*domain.Profile, error) {
	profile, err := config.ImportProfile(data)
	if err != nil {
		return nil, err
	}
	if modpackID != "" {
		profile.ModpackID = modpackID
	}
	if profile.ModpackID == "" {
		return nil, errors.New("imported profile names no modpack")
	}

	// Check if profile already exists
	_, existErr := config.LoadProfile(pm.configDir, profile.ModpackID, profile.Name)
	if existErr == nil {
		return nil, fmt.Errorf("profile already exists: %s", profile.Name)
	}

	if err := config.SaveProfile(pm.configDir, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
