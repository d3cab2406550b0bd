package source

import (
	"context"

	"mpm/internal/domain"
)

// FileFilter narrows a project's file listing.
// Loader is optional; an empty Loader means files for any loader.
type FileFilter struct {
	GameVersion string
	Loader      string
}

// SearchQuery contains parameters for searching catalog projects.
type SearchQuery struct {
	Query       string
	GameVersion string
	Loader      string
	ContentType domain.ContentType
	CategoryID  int
	Page        int
	PageSize    int
}

// SearchResult contains paginated search results.
type SearchResult struct {
	Projects   []domain.CatalogProject
	TotalCount int // Total results available (0 if unknown)
	Page       int
	PageSize   int
}

// Library registers materialized catalog files as local library items
type Library interface {
	SaveLibraryItem(ctx context.Context, mod *domain.Mod) error
}

// Catalog is the interface for mod repositories
type Catalog interface {
	// Identity
	ID() string
	Name() string

	// Discovery
	Search(ctx context.Context, query SearchQuery) (SearchResult, error)
	ListFiles(ctx context.Context, projectID int, filter FileFilter) ([]domain.CandidateFile, error)

	// Materialize registers a catalog file as a library item. It returns a nil item
	// and nil error when the file exists but cannot be added to the library.
	Materialize(ctx context.Context, projectID, fileID int, loader, contentClass string) (*domain.LibraryItem, error)
}
