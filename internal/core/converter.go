package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mpm/internal/domain"
	"mpm/internal/source"

	"go.uber.org/zap"
)

// Outcome reasons that are not derived from catalog data
const (
	reasonNotFromCatalog  = "Not from CurseForge"
	reasonLibraryFailed   = "Failed to add to library"
	reasonRunCancelled    = "Conversion cancelled"
	reasonResolverFailure = "internal error"
)

// ConversionCatalog is the part of the catalog the converter needs
type ConversionCatalog interface {
	ListFiles(ctx context.Context, projectID int, filter source.FileFilter) ([]domain.CandidateFile, error)
	Materialize(ctx context.Context, projectID, fileID int, loader, contentClass string) (*domain.LibraryItem, error)
}

// ModpackStore is the part of the modpack store the converter needs
type ModpackStore interface {
	ListMods(ctx context.Context, modpackID string) ([]domain.Mod, error)
	CreateModpack(ctx context.Context, spec domain.ModpackSpec) (string, error)
	AddModToModpack(ctx context.Context, modpackID, modID string) error
}

// Converter retargets modpacks to another game version and/or loader
type Converter struct {
	catalog ConversionCatalog
	store   ModpackStore
	logger  *zap.Logger
	sched   scheduler

	attachMu sync.Mutex // serializes writes to the destination modpack
}

// ConverterOption configures a Converter
type ConverterOption func(*Converter)

// WithLogger sets the logger used for run and per-mod events
func WithLogger(logger *zap.Logger) ConverterOption {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency sets how many mods are resolved at once. The default of 1
// resolves mods strictly one after another.
func WithConcurrency(n int) ConverterOption {
	return func(c *Converter) {
		c.sched = newScheduler(n)
	}
}

// NewConverter creates a converter over the given catalog and store
func NewConverter(catalog ConversionCatalog, store ModpackStore, opts ...ConverterOption) *Converter {
	c := &Converter{
		catalog: catalog,
		store:   store,
		logger:  zap.NewNop(),
		sched:   newScheduler(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("convert")
	return c
}

// ValidateConversion checks that a conversion request can start
func ValidateConversion(src *domain.Modpack, newName, targetVersion, targetLoader string) error {
	switch {
	case src == nil:
		return fmt.Errorf("%w: no source modpack", domain.ErrInvalidConversion)
	case strings.TrimSpace(newName) == "":
		return fmt.Errorf("%w: new modpack name is required", domain.ErrInvalidConversion)
	case strings.TrimSpace(targetVersion) == "":
		return fmt.Errorf("%w: target game version is required", domain.ErrInvalidConversion)
	case strings.TrimSpace(targetLoader) == "":
		return fmt.Errorf("%w: target loader is required", domain.ErrInvalidConversion)
	case strings.EqualFold(strings.TrimSpace(targetVersion), src.MinecraftVersion) &&
		strings.EqualFold(strings.TrimSpace(targetLoader), src.Loader):
		return fmt.Errorf("%w: target %s %s is the same as the source", domain.ErrInvalidConversion, targetVersion, targetLoader)
	}
	return nil
}

// Convert creates a new modpack named newName from src, retargeted at
// targetVersion and targetLoader. Every source mod gets exactly one outcome,
// in source order. Listing the source mods or creating the new modpack are the
// only failures that abort the run; per-mod errors become failed outcomes.
func (c *Converter) Convert(ctx context.Context, src *domain.Modpack, newName, targetVersion, targetLoader string) (*domain.ConversionResult, error) {
	if err := ValidateConversion(src, newName, targetVersion, targetLoader); err != nil {
		return nil, err
	}
	newName = strings.TrimSpace(newName)
	targetVersion = strings.TrimSpace(targetVersion)
	targetLoader = strings.TrimSpace(targetLoader)
	t := target{version: targetVersion, loader: targetLoader}

	mods, err := c.store.ListMods(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("listing mods of %s: %w", src.Name, err)
	}

	version := src.Version
	if version == "" {
		version = domain.DefaultModpackVersion
	}
	destID, err := c.store.CreateModpack(ctx, domain.ModpackSpec{
		Name:             newName,
		Version:          version,
		MinecraftVersion: targetVersion,
		Loader:           targetLoader,
		Description:      fmt.Sprintf("Converted from %s (%s %s)", src.Name, src.MinecraftVersion, src.Loader),
	})
	if err != nil {
		return nil, fmt.Errorf("creating modpack %s: %w", newName, err)
	}
	if destID == "" {
		return nil, fmt.Errorf("creating modpack %s: %w", newName, errors.New("store returned no modpack ID"))
	}

	c.logger.Info("conversion started",
		zap.String("source", src.Name),
		zap.String("destination", destID),
		zap.String("version", targetVersion),
		zap.String("loader", targetLoader),
		zap.Int("mods", len(mods)))

	progress := domain.ConvertProgressFromContext(ctx)
	var progressMu sync.Mutex
	done := 0

	details := make([]domain.OutcomeRecord, len(mods))
	ran := c.sched.run(ctx, len(mods), func(ctx context.Context, i int) {
		rec := c.resolveSafely(ctx, destID, mods[i], t)
		details[i] = rec

		c.logger.Debug("mod resolved",
			zap.String("mod", rec.ModName),
			zap.String("status", string(rec.Status)),
			zap.String("reason", rec.Reason))

		if progress != nil {
			progressMu.Lock()
			done++
			progress(done, len(mods), rec)
			progressMu.Unlock()
		}
	})

	result := &domain.ConversionResult{ModpackID: destID, Details: details}
	for i := range details {
		if !ran[i] {
			details[i] = domain.OutcomeRecord{ModName: mods[i].Name, Status: domain.OutcomeSkipped, Reason: reasonRunCancelled}
		}
		switch details[i].Status {
		case domain.OutcomeSuccess:
			result.Success++
		case domain.OutcomeFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}

	c.logger.Info("conversion finished",
		zap.String("destination", destID),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// resolveSafely resolves one mod, turning a panic in a collaborator into a failed outcome
func (c *Converter) resolveSafely(ctx context.Context, destID string, mod domain.Mod, t target) (rec domain.OutcomeRecord) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("resolver panic", zap.String("mod", mod.Name), zap.Any("panic", r))
			rec = failed(mod, fmt.Sprintf("%s: %v", reasonResolverFailure, r))
		}
	}()
	return c.resolve(ctx, destID, mod, t)
}

// resolve finds, materializes and attaches a replacement file for one mod
func (c *Converter) resolve(ctx context.Context, destID string, mod domain.Mod, t target) domain.OutcomeRecord {
	if !mod.HasCatalogProject() {
		return domain.OutcomeRecord{ModName: mod.Name, Status: domain.OutcomeSkipped, Reason: reasonNotFromCatalog}
	}

	isMod := mod.ContentType.IsMod()
	filter := source.FileFilter{GameVersion: t.version}
	if isMod {
		filter.Loader = t.loader
	}

	files, err := c.catalog.ListFiles(ctx, mod.ProjectID, filter)
	if err != nil {
		return failed(mod, err.Error())
	}
	if len(files) == 0 {
		return failed(mod, noFilesReason(t, isMod))
	}

	file, ok := selectFile(files, t, isMod)
	if !ok {
		return failed(mod, diagnose(files, t, isMod))
	}

	var loader string
	if isMod {
		loader = t.loader
	}
	item, err := c.catalog.Materialize(ctx, mod.ProjectID, file.ID, loader, mod.ContentType.CatalogClass())
	if err != nil {
		return failed(mod, err.Error())
	}
	if item == nil {
		return failed(mod, reasonLibraryFailed)
	}

	if err := c.attach(ctx, destID, item.ID); err != nil {
		return failed(mod, err.Error())
	}

	return domain.OutcomeRecord{ModName: mod.Name, Status: domain.OutcomeSuccess}
}

// attach adds a library item to the destination modpack. The unlock is deferred
// so a panicking store does not leave later mods waiting on the lock.
func (c *Converter) attach(ctx context.Context, destID, itemID string) error {
	c.attachMu.Lock()
	defer c.attachMu.Unlock()
	return c.store.AddModToModpack(ctx, destID, itemID)
}

func failed(mod domain.Mod, reason string) domain.OutcomeRecord {
	return domain.OutcomeRecord{ModName: mod.Name, Status: domain.OutcomeFailed, Reason: reason}
}
