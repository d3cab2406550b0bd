package curseforge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mpm/internal/domain"
	"mpm/internal/source"

	"go.uber.org/zap"
)

// CurseForge implements the source.Catalog interface
type CurseForge struct {
	client  *Client
	library source.Library
	logger  *zap.Logger
}

// New creates a new CurseForge catalog. Materialized files are registered in library.
func New(httpClient *http.Client, apiKey string, library source.Library, logger *zap.Logger) *CurseForge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurseForge{
		client:  NewClient(httpClient, apiKey),
		library: library,
		logger:  logger.Named("curseforge"),
	}
}

// ID returns the provenance tag
func (c *CurseForge) ID() string {
	return domain.SourceCurseForge
}

// Name returns the display name
func (c *CurseForge) Name() string {
	return "CurseForge"
}

// SetAPIKey sets the API key for authentication
func (c *CurseForge) SetAPIKey(key string) {
	c.client.SetAPIKey(key)
}

// SetBaseURL overrides the API host
func (c *CurseForge) SetBaseURL(u string) {
	c.client.SetBaseURL(u)
}

// ValidateAPIKey checks a key against the API
func (c *CurseForge) ValidateAPIKey(ctx context.Context, apiKey string) error {
	return c.client.ValidateAPIKey(ctx, apiKey)
}

// IsAuthenticated returns true if an API key is configured
func (c *CurseForge) IsAuthenticated() bool {
	return c.client.IsAuthenticated()
}

// ListFiles returns the files of a project, filtered server-side by game version
// and, when filter.Loader is set, by loader. The server-side filter is advisory;
// callers still match on the returned tags.
func (c *CurseForge) ListFiles(ctx context.Context, projectID int, filter source.FileFilter) ([]domain.CandidateFile, error) {
	files, err := c.client.GetModFiles(ctx, projectID, filter.GameVersion, loaderType(filter.Loader))
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.CandidateFile, 0, len(files))
	for _, f := range files {
		candidates = append(candidates, fileToDomain(f))
	}

	c.logger.Debug("listed files",
		zap.Int("project", projectID),
		zap.String("gameVersion", filter.GameVersion),
		zap.String("loader", filter.Loader),
		zap.Int("count", len(candidates)))

	return candidates, nil
}

// Materialize registers a project file in the local library.
// Files the catalog marks unavailable yield a nil item.
func (c *CurseForge) Materialize(ctx context.Context, projectID, fileID int, loader, contentClass string) (*domain.LibraryItem, error) {
	if c.library == nil {
		return nil, fmt.Errorf("curseforge: no library configured")
	}

	file, err := c.client.GetModFile(ctx, projectID, fileID)
	if err != nil {
		return nil, err
	}
	if !file.IsAvailable {
		c.logger.Debug("file not available", zap.Int("project", projectID), zap.Int("file", fileID))
		return nil, nil
	}

	project, err := c.client.GetMod(ctx, projectID)
	if err != nil {
		return nil, err
	}

	mod := &domain.Mod{
		Name:        project.Name,
		ContentType: contentTypeFromClass(contentClass),
		Source:      domain.SourceCurseForge,
		ProjectID:   projectID,
		FileID:      file.ID,
		CategoryIDs: categoryIDs(project.Categories),
		Enabled:     true,
	}
	if err := c.library.SaveLibraryItem(ctx, mod); err != nil {
		return nil, fmt.Errorf("saving library item: %w", err)
	}

	c.logger.Debug("materialized file",
		zap.String("name", mod.Name),
		zap.Int("file", file.ID),
		zap.String("loader", loader))

	return &domain.LibraryItem{
		ID:          mod.ID,
		Name:        mod.Name,
		Source:      mod.Source,
		ProjectID:   mod.ProjectID,
		FileID:      mod.FileID,
		ContentType: mod.ContentType,
	}, nil
}

// Search finds projects matching the query, most popular first
func (c *CurseForge) Search(ctx context.Context, query source.SearchQuery) (source.SearchResult, error) {
	pageSize := query.PageSize
	if pageSize == 0 {
		pageSize = 20
	}

	params := SearchParams{
		Query:       query.Query,
		ClassID:     classID(query.ContentType),
		CategoryID:  query.CategoryID,
		GameVersion: query.GameVersion,
		SortField:   SortPopularity,
		PageSize:    pageSize,
		Index:       query.Page * pageSize,
	}
	if query.ContentType.IsMod() {
		params.ModLoaderType = loaderType(query.Loader)
	}

	results, pagination, err := c.client.SearchMods(ctx, params)
	if err != nil {
		return source.SearchResult{}, err
	}

	projects := make([]domain.CatalogProject, len(results))
	for i, r := range results {
		projects[i] = projectToDomain(r)
	}

	return source.SearchResult{
		Projects:   projects,
		TotalCount: pagination.TotalCount,
		Page:       query.Page,
		PageSize:   pageSize,
	}, nil
}

// loaderType maps a loader name to the CurseForge mod loader type
func loaderType(loader string) int {
	switch strings.ToLower(strings.TrimSpace(loader)) {
	case "forge":
		return ModLoaderForge
	case "fabric":
		return ModLoaderFabric
	case "quilt":
		return ModLoaderQuilt
	case "neoforge":
		return ModLoaderNeoForge
	case "liteloader":
		return ModLoaderLiteLoader
	case "cauldron":
		return ModLoaderCauldron
	default:
		return ModLoaderAny
	}
}

func classID(ct domain.ContentType) int {
	switch ct {
	case domain.ContentResourcePack:
		return ClassResourcePacks
	case domain.ContentShader:
		return ClassShaders
	default:
		return ClassMods
	}
}

func classToContentType(id int) domain.ContentType {
	switch id {
	case ClassResourcePacks:
		return domain.ContentResourcePack
	case ClassShaders:
		return domain.ContentShader
	default:
		return domain.ContentMod
	}
}

func contentTypeFromClass(class string) domain.ContentType {
	switch class {
	case "resourcepacks":
		return domain.ContentResourcePack
	case "shaders":
		return domain.ContentShader
	default:
		return domain.ContentMod
	}
}

func releaseType(rt int) domain.ReleaseType {
	switch rt {
	case ReleaseTypeRelease:
		return domain.ReleaseStable
	case ReleaseTypeBeta:
		return domain.ReleaseBeta
	case ReleaseTypeAlpha:
		return domain.ReleaseAlpha
	default:
		return domain.ReleaseUnknown
	}
}

func fileToDomain(f File) domain.CandidateFile {
	return domain.CandidateFile{
		ID:           f.ID,
		DisplayName:  f.DisplayName,
		GameVersions: f.GameVersions,
		ReleaseType:  releaseType(f.ReleaseType),
	}
}

func categoryIDs(categories []Category) []int {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]int, len(categories))
	for i, cat := range categories {
		ids[i] = cat.ID
	}
	return ids
}

// projectToDomain converts a CurseForge Mod to domain.CatalogProject
func projectToDomain(data Mod) domain.CatalogProject {
	var author string
	if len(data.Authors) > 0 {
		author = data.Authors[0].Name
	}

	return domain.CatalogProject{
		ID:          data.ID,
		Name:        data.Name,
		Slug:        data.Slug,
		Summary:     data.Summary,
		Author:      author,
		Downloads:   data.DownloadCount,
		CategoryIDs: categoryIDs(data.Categories),
		ContentType: classToContentType(data.ClassID),
	}
}
