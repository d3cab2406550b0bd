package domain

import "time"

// SourceCurseForge is the provenance tag for content installed from CurseForge
const SourceCurseForge = "curseforge"

// SourceLocal is the provenance tag for content imported from local files
const SourceLocal = "local"

// ContentType classifies installed content
type ContentType string

const (
	ContentMod          ContentType = "mod"
	ContentResourcePack ContentType = "resourcepack"
	ContentShader       ContentType = "shader"
)

// IsMod returns true for loader-specific mod content. An empty type counts as a mod.
func (c ContentType) IsMod() bool {
	return c == "" || c == ContentMod
}

// CatalogClass maps the content type to the catalog's content class vocabulary
func (c ContentType) CatalogClass() string {
	switch c {
	case ContentResourcePack:
		return "resourcepacks"
	case ContentShader:
		return "shaders"
	default:
		return "mods"
	}
}

// ParseContentType converts a string to ContentType, defaulting to ContentMod
func ParseContentType(s string) ContentType {
	switch ContentType(s) {
	case ContentResourcePack:
		return ContentResourcePack
	case ContentShader:
		return ContentShader
	default:
		return ContentMod
	}
}

// Mod is an installed content record. It belongs to at most one modpack;
// records with an empty ModpackID are library items not yet attached.
type Mod struct {
	ID          string
	ModpackID   string
	Name        string
	ContentType ContentType
	Source      string // Provenance tag, e.g. "curseforge"
	ProjectID   int    // Catalog project ID, 0 if unknown
	FileID      int    // Catalog file ID, 0 if unknown
	CategoryIDs []int
	Enabled     bool
	AddedAt     time.Time
}

// HasCatalogProject returns true if the mod can be looked up in the CurseForge catalog
func (m *Mod) HasCatalogProject() bool {
	return m.Source == SourceCurseForge && m.ProjectID > 0
}

// LibraryItem is a catalog file that has been registered locally
type LibraryItem struct {
	ID          string
	Name        string
	Source      string
	ProjectID   int
	FileID      int
	ContentType ContentType
}
