package domain

// ReleaseType classifies a catalog file's stability
type ReleaseType int

const (
	ReleaseUnknown ReleaseType = iota
	ReleaseStable              // Release
	ReleaseBeta
	ReleaseAlpha
)

func (r ReleaseType) String() string {
	switch r {
	case ReleaseStable:
		return "release"
	case ReleaseBeta:
		return "beta"
	case ReleaseAlpha:
		return "alpha"
	default:
		return "unknown"
	}
}

// CandidateFile is one downloadable artifact of a catalog project.
// GameVersions is the catalog's flat tag list: it mixes Minecraft versions
// ("1.20.1") and loader names ("Fabric") in one set.
type CandidateFile struct {
	ID           int
	DisplayName  string
	GameVersions []string
	ReleaseType  ReleaseType
}

// CatalogProject is a search hit from the catalog
type CatalogProject struct {
	ID          int
	Name        string
	Slug        string
	Summary     string
	Author      string
	Downloads   int64
	CategoryIDs []int
	ContentType ContentType
}
