package domain

import "time"

// DefaultModpackVersion is used when a modpack has no semantic version of its own
const DefaultModpackVersion = "1.0.0"

// Modpack is a named set of mods targeting one game version and loader
type Modpack struct {
	ID               string
	Name             string
	Version          string // Semantic version of the pack itself
	MinecraftVersion string // e.g. "1.20.1"
	Loader           string // e.g. "fabric", "forge"
	Description      string
	RemoteSourceURL  string // Set for packs managed by a remote source; such packs are read-only
	CreatedAt        time.Time
}

// IsReadOnly returns true if the modpack is managed by a remote source
func (m *Modpack) IsReadOnly() bool {
	return m.RemoteSourceURL != ""
}

// ModpackSpec holds the fields needed to create a modpack
type ModpackSpec struct {
	Name             string
	Version          string
	MinecraftVersion string
	Loader           string
	Description      string
	RemoteSourceURL  string
}
