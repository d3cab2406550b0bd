package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"mpm/internal/domain"
	"mpm/internal/source"
	"mpm/internal/source/curseforge"
	"mpm/internal/storage/config"
	"mpm/internal/storage/db"

	"go.uber.org/zap"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir string // Directory for configuration files and profiles
	DataDir   string // Directory for the modpack database

	Logger         *zap.Logger  // Defaults to a no-op logger
	HTTPClient     *http.Client // Defaults to http.DefaultClient
	CatalogBaseURL string       // Overrides the CurseForge API host
}

// Service is the main orchestrator for modpack operations
type Service struct {
	config     *config.Config
	db         *db.DB
	registry   *source.Registry
	curseforge *curseforge.CurseForge
	converter  *Converter
	profiles   *ProfileManager
	logger     *zap.Logger

	configDir string
	dataDir   string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Load configuration
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Open database
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.New(filepath.Join(cfg.DataDir, "mpm.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Config and environment win over a key saved with `mpm auth login`
	apiKey := appConfig.CurseForgeAPIKey
	if apiKey == "" {
		token, err := database.GetToken(context.Background(), domain.SourceCurseForge)
		if err != nil {
			database.Close()
			return nil, err
		}
		if token != nil {
			apiKey = token.APIKey
		}
	}

	cf := curseforge.New(cfg.HTTPClient, apiKey, database, logger)
	cf.SetBaseURL(cfg.CatalogBaseURL)

	registry := source.NewRegistry()
	registry.Register(cf)

	// The converter only resolves CurseForge mods
	catalog, err := registry.Get(domain.SourceCurseForge)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &Service{
		config:     appConfig,
		db:         database,
		registry:   registry,
		curseforge: cf,
		converter:  NewConverter(catalog, database, WithLogger(logger), WithConcurrency(appConfig.Concurrency)),
		profiles:   NewProfileManager(cfg.ConfigDir, database),
		logger:     logger,
		configDir:  cfg.ConfigDir,
		dataDir:    cfg.DataDir,
	}, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Config returns the loaded application configuration
func (s *Service) Config() *config.Config {
	return s.config
}

// ConfigDir returns the configuration directory
func (s *Service) ConfigDir() string {
	return s.configDir
}

// Catalogs returns the registered catalogs sorted by provenance tag
func (s *Service) Catalogs() []source.Catalog {
	return s.registry.List()
}

// catalog looks a registered catalog up by provenance tag
func (s *Service) catalog(id string) (source.Catalog, error) {
	catalog, err := s.registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCatalog, id)
	}
	return catalog, nil
}

// Profiles returns the profile manager
func (s *Service) Profiles() *ProfileManager {
	return s.profiles
}

// ImportProfile imports an exported profile into the modpack ref. An empty ref
// uses the modpack named in the file. Either way the modpack must exist.
func (s *Service) ImportProfile(ctx context.Context, data []byte, ref string) (*domain.Profile, error) {
	if ref == "" {
		parsed, err := config.ImportProfile(data)
		if err != nil {
			return nil, err
		}
		if parsed.ModpackID == "" {
			return nil, errors.New("imported profile names no modpack")
		}
		ref = parsed.ModpackID
	}

	mp, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("modpack %s: %w", ref, err)
	}
	return s.profiles.Import(data, mp.ID)
}

// IsCatalogAuthenticated reports whether a CurseForge API key is available
func (s *Service) IsCatalogAuthenticated() bool {
	return s.curseforge.IsAuthenticated()
}

// ValidateAPIKey checks a CurseForge API key without storing it
func (s *Service) ValidateAPIKey(ctx context.Context, apiKey string) error {
	return s.curseforge.ValidateAPIKey(ctx, strings.TrimSpace(apiKey))
}

// SaveAPIKey stores a CurseForge API key and uses it for this session
func (s *Service) SaveAPIKey(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}
	if err := s.db.SaveToken(ctx, domain.SourceCurseForge, apiKey); err != nil {
		return err
	}
	s.curseforge.SetAPIKey(apiKey)
	return nil
}

// DeleteAPIKey removes the stored CurseForge API key. A key from config or
// the environment stays in effect.
func (s *Service) DeleteAPIKey(ctx context.Context) error {
	if err := s.db.DeleteToken(ctx, domain.SourceCurseForge); err != nil {
		return err
	}
	s.curseforge.SetAPIKey(s.config.CurseForgeAPIKey)
	return nil
}

// CreateModpack creates an empty modpack
func (s *Service) CreateModpack(ctx context.Context, spec domain.ModpackSpec) (*domain.Modpack, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return nil, errors.New("modpack name is required")
	}
	if spec.MinecraftVersion == "" {
		return nil, errors.New("minecraft version is required")
	}
	if spec.Loader == "" {
		spec.Loader = s.config.DefaultLoader
	}

	id, err := s.db.CreateModpack(ctx, spec)
	if err != nil {
		return nil, err
	}
	return s.db.GetModpack(ctx, id)
}

// GetModpack looks a modpack up by ID or name
func (s *Service) GetModpack(ctx context.Context, ref string) (*domain.Modpack, error) {
	return s.db.FindModpack(ctx, ref)
}

// ListModpacks returns all modpacks
func (s *Service) ListModpacks(ctx context.Context) ([]domain.Modpack, error) {
	return s.db.ListModpacks(ctx)
}

// DeleteModpack deletes a modpack and its mods
func (s *Service) DeleteModpack(ctx context.Context, ref string) error {
	mp, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return err
	}
	return s.db.DeleteModpack(ctx, mp.ID)
}

// ListMods returns the mods of a modpack in the order they were added
func (s *Service) ListMods(ctx context.Context, ref string) ([]domain.Mod, error) {
	mp, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.db.ListMods(ctx, mp.ID)
}

// AddCatalogMod adds a CurseForge project to a modpack, choosing the file the
// same way a conversion would for the modpack's version and loader.
func (s *Service) AddCatalogMod(ctx context.Context, ref string, projectID int, contentType domain.ContentType) (*domain.LibraryItem, error) {
	mp, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return nil, err
	}
	if mp.IsReadOnly() {
		return nil, domain.ErrModpackReadOnly
	}

	t := target{version: mp.MinecraftVersion, loader: mp.Loader}
	isMod := contentType.IsMod()
	filter := source.FileFilter{GameVersion: t.version}
	if isMod {
		filter.Loader = t.loader
	}

	catalog, err := s.catalog(domain.SourceCurseForge)
	if err != nil {
		return nil, err
	}
	files, err := catalog.ListFiles(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(noFilesReason(t, isMod))
	}
	file, ok := selectFile(files, t, isMod)
	if !ok {
		return nil, errors.New(diagnose(files, t, isMod))
	}

	var loader string
	if isMod {
		loader = t.loader
	}
	item, err := catalog.Materialize(ctx, projectID, file.ID, loader, contentType.CatalogClass())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New(reasonLibraryFailed)
	}

	if err := s.db.AddModToModpack(ctx, mp.ID, item.ID); err != nil {
		return nil, err
	}
	s.logger.Info("mod added", zap.String("modpack", mp.Name), zap.String("mod", item.Name), zap.Int("file", item.FileID))
	return item, nil
}

// AddLocalMod records a mod that does not come from a catalog
func (s *Service) AddLocalMod(ctx context.Context, ref, name string, contentType domain.ContentType) (*domain.Mod, error) {
	mp, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return nil, err
	}
	if mp.IsReadOnly() {
		return nil, domain.ErrModpackReadOnly
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("mod name is required")
	}

	mod := &domain.Mod{
		ModpackID:   mp.ID,
		Name:        strings.TrimSpace(name),
		ContentType: contentType,
		Source:      domain.SourceLocal,
		Enabled:     true,
	}
	if err := s.db.SaveLibraryItem(ctx, mod); err != nil {
		return nil, err
	}
	return mod, nil
}

// RemoveMod removes a mod from a modpack
func (s *Service) RemoveMod(ctx context.Context, ref, modID string) error {
	mp, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return err
	}
	return s.db.RemoveModFromModpack(ctx, mp.ID, modID)
}

// Convert retargets the modpack ref at a new game version and loader, creating
// a new modpack called newName. Progress is reported through the
// domain.ConvertProgressFunc attached to ctx, if any.
func (s *Service) Convert(ctx context.Context, ref, newName, targetVersion, targetLoader string) (*domain.ConversionResult, error) {
	src, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.converter.Convert(ctx, src, newName, targetVersion, targetLoader)
}

// Search queries the CurseForge catalog
func (s *Service) Search(ctx context.Context, query source.SearchQuery) (source.SearchResult, error) {
	catalog, err := s.catalog(domain.SourceCurseForge)
	if err != nil {
		return source.SearchResult{}, err
	}
	return catalog.Search(ctx, query)
}

// Compare diffs the mod lists of two modpacks
func (s *Service) Compare(ctx context.Context, leftRef, rightRef string) (domain.Comparison, error) {
	left, err := s.ListMods(ctx, leftRef)
	if err != nil {
		return domain.Comparison{}, err
	}
	right, err := s.ListMods(ctx, rightRef)
	if err != nil {
		return domain.Comparison{}, err
	}
	return CompareModpacks(left, right), nil
}
