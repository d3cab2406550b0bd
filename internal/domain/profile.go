package domain

// ModKey identifies a mod across modpacks: source plus catalog project when known,
// otherwise the source plus display name.
type ModKey struct {
	Source    string `yaml:"source"`
	ProjectID int    `yaml:"project_id,omitempty"`
	Name      string `yaml:"name"`
}

// Profile is a saved selection of enabled mods for one modpack
type Profile struct {
	Name      string   // Profile identifier
	ModpackID string   // Which modpack this profile belongs to
	Enabled   []ModKey // Mods enabled when the profile is applied
}

// ExportedProfile is the YAML-serializable format for sharing
type ExportedProfile struct {
	Name      string   `yaml:"name"`
	ModpackID string   `yaml:"modpack_id"`
	Enabled   []ModKey `yaml:"enabled"`
}

// Comparison is the result of diffing two modpacks' mod lists
type Comparison struct {
	OnlyLeft  []Mod
	OnlyRight []Mod
	Both      []ModPair
}

// ModPair is a mod present in both compared modpacks
type ModPair struct {
	Left  Mod
	Right Mod
}
