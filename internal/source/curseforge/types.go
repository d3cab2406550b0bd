package curseforge

import "time"

// CurseForge API v1 response types
// API docs: https://docs.curseforge.com/rest-api/

// APIResponse wraps all CurseForge API responses
type APIResponse[T any] struct {
	Data T `json:"data"`
}

// PaginatedResponse wraps paginated CurseForge API responses
type PaginatedResponse[T any] struct {
	Data       T          `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination contains pagination info from CurseForge API
type Pagination struct {
	Index       int `json:"index"`
	PageSize    int `json:"pageSize"`
	ResultCount int `json:"resultCount"`
	TotalCount  int `json:"totalCount"`
}

// Mod represents a project from the CurseForge API
type Mod struct {
	ID                int        `json:"id"`
	GameID            int        `json:"gameId"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Summary           string     `json:"summary"`
	DownloadCount     int64      `json:"downloadCount"`
	PrimaryCategoryID int        `json:"primaryCategoryId"`
	Categories        []Category `json:"categories"`
	ClassID           int        `json:"classId"`
	Authors           []Author   `json:"authors"`
	MainFileID        int        `json:"mainFileId"`
	DateModified      time.Time  `json:"dateModified"`
	IsAvailable       bool       `json:"isAvailable"`
}

// Category represents a project category
type Category struct {
	ID      int    `json:"id"`
	GameID  int    `json:"gameId"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	ClassID int    `json:"classId"`
}

// Game represents a game supported by the API
type Game struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Author represents a project author
type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// File represents a downloadable project file.
// GameVersions mixes Minecraft versions and loader names, e.g. ["1.20.1", "Fabric", "Client"].
type File struct {
	ID           int       `json:"id"`
	GameID       int       `json:"gameId"`
	ModID        int       `json:"modId"`
	IsAvailable  bool      `json:"isAvailable"`
	DisplayName  string    `json:"displayName"`
	FileName     string    `json:"fileName"`
	ReleaseType  int       `json:"releaseType"` // 1=Release, 2=Beta, 3=Alpha
	FileDate     time.Time `json:"fileDate"`
	FileLength   int64     `json:"fileLength"`
	GameVersions []string  `json:"gameVersions"`
}

// Minecraft game ID on CurseForge
const GameMinecraft = 432

// Minecraft class IDs
const (
	ClassMods          = 6
	ClassResourcePacks = 12
	ClassShaders       = 6552
)

// Release types
const (
	ReleaseTypeRelease = 1
	ReleaseTypeBeta    = 2
	ReleaseTypeAlpha   = 3
)

// Mod loader types
const (
	ModLoaderAny        = 0
	ModLoaderForge      = 1
	ModLoaderCauldron   = 2
	ModLoaderLiteLoader = 3
	ModLoaderFabric     = 4
	ModLoaderQuilt      = 5
	ModLoaderNeoForge   = 6
)

// Search sort fields
const (
	SortPopularity     = 2
	SortTotalDownloads = 6
)
