package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mpm/internal/core"
	"mpm/internal/domain"
	"mpm/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves candidate files per project and materializes them into fake library items
type fakeCatalog struct {
	mu           sync.Mutex
	files        map[int][]domain.CandidateFile
	listErr      map[int]error
	nilItem      map[int]bool
	panicOn      map[int]bool
	filters      map[int]source.FileFilter
	materialized []materializeCall
}

type materializeCall struct {
	projectID, fileID    int
	loader, contentClass string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		files:   make(map[int][]domain.CandidateFile),
		listErr: make(map[int]error),
		nilItem: make(map[int]bool),
		panicOn: make(map[int]bool),
		filters: make(map[int]source.FileFilter),
	}
}

func (f *fakeCatalog) ListFiles(_ context.Context, projectID int, filter source.FileFilter) ([]domain.CandidateFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn[projectID] {
		panic("catalog exploded")
	}
	f.filters[projectID] = filter
	if err := f.listErr[projectID]; err != nil {
		return nil, err
	}
	return f.files[projectID], nil
}

func (f *fakeCatalog) Materialize(_ context.Context, projectID, fileID int, loader, contentClass string) (*domain.LibraryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.materialized = append(f.materialized, materializeCall{projectID, fileID, loader, contentClass})
	if f.nilItem[projectID] {
		return nil, nil
	}
	return &domain.LibraryItem{ID: fmt.Sprintf("lib-%d-%d", projectID, fileID), ProjectID: projectID, FileID: fileID}, nil
}

// fakeStore records modpack writes
type fakeStore struct {
	mu        sync.Mutex
	mods      []domain.Mod
	listErr   error
	createErr error
	created   []domain.ModpackSpec
	attached  []string
	attachErr map[string]error
	calls     int
}

func (s *fakeStore) ListMods(context.Context, string) ([]domain.Mod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.mods, s.listErr
}

func (s *fakeStore) CreateModpack(_ context.Context, spec domain.ModpackSpec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, spec)
	return "new-pack", nil
}

func (s *fakeStore) AddModToModpack(_ context.Context, modpackID, modID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := s.attachErr[modID]; err != nil {
		return err
	}
	s.attached = append(s.attached, modID)
	return nil
}

func sourcePack() *domain.Modpack {
	return &domain.Modpack{ID: "src", Name: "Origin", Version: "2.0.0", MinecraftVersion: "1.19.2", Loader: "forge"}
}

func cfMod(name string, projectID int, ct domain.ContentType) domain.Mod {
	return domain.Mod{ID: name, Name: name, Source: domain.SourceCurseForge, ProjectID: projectID, ContentType: ct}
}

func stable(id int, tags ...string) domain.CandidateFile {
	return domain.CandidateFile{ID: id, GameVersions: tags, ReleaseType: domain.ReleaseStable}
}

func assertCounts(t *testing.T, res *domain.ConversionResult, total int) {
	t.Helper()
	assert.Equal(t, total, res.Total())
	assert.Len(t, res.Details, total)
}

func TestConvert_EndToEnd(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.files[100] = []domain.CandidateFile{stable(500, "1.20.1", "Fabric")}

	store := &fakeStore{mods: []domain.Mod{
		cfMod("A", 100, domain.ContentMod),
		{ID: "b", Name: "B", Source: domain.SourceLocal},
	}}

	conv := core.NewConverter(catalog, store)
	res, err := conv.Convert(context.Background(), sourcePack(), "Origin Fabric", "1.20.1", "fabric")
	require.NoError(t, err)

	assert.Equal(t, "new-pack", res.ModpackID)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 1, res.Skipped)
	assertCounts(t, res, 2)

	assert.Equal(t, domain.OutcomeRecord{ModName: "A", Status: domain.OutcomeSuccess}, res.Details[0])
	assert.Equal(t, domain.OutcomeRecord{ModName: "B", Status: domain.OutcomeSkipped, Reason: "Not from CurseForge"}, res.Details[1])

	require.Len(t, store.created, 1)
	spec := store.created[0]
	assert.Equal(t, "Origin Fabric", spec.Name)
	assert.Equal(t, "2.0.0", spec.Version)
	assert.Equal(t, "1.20.1", spec.MinecraftVersion)
	assert.Equal(t, "fabric", spec.Loader)
	assert.Equal(t, "Converted from Origin (1.19.2 forge)", spec.Description)

	assert.Equal(t, []string{"lib-100-500"}, store.attached)
	require.Len(t, catalog.materialized, 1)
	assert.Equal(t, materializeCall{100, 500, "fabric", "mods"}, catalog.materialized[0])
	assert.Equal(t, source.FileFilter{GameVersion: "1.20.1", Loader: "fabric"}, catalog.filters[100])
}

func TestConvert_PackContentIgnoresLoader(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.files[7] = []domain.CandidateFile{stable(70, "1.20")}
	catalog.files[8] = []domain.CandidateFile{
		{ID: 80, GameVersions: []string{"1.16.5"}, ReleaseType: domain.ReleaseBeta},
		stable(81, "1.18.2"),
	}

	store := &fakeStore{mods: []domain.Mod{
		cfMod("Faithful", 7, domain.ContentResourcePack),
		cfMod("Complementary", 8, domain.ContentShader),
	}}

	res, err := core.NewConverter(catalog, store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)

	assert.Equal(t, source.FileFilter{GameVersion: "1.20.1"}, catalog.filters[7])
	assert.Equal(t, []materializeCall{
		{7, 70, "", "resourcepacks"},
		{8, 81, "", "shaders"},
	}, catalog.materialized)
}

func TestConvert_FailureReasons(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.files[1] = nil
	catalog.files[2] = []domain.CandidateFile{stable(20, "1.20.1", "Forge")}
	catalog.files[3] = []domain.CandidateFile{stable(30, "1.19.2", "Fabric")}
	catalog.listErr[4] = errors.New("curseforge API error (status 503)")
	catalog.files[5] = []domain.CandidateFile{stable(50, "1.20.1", "Fabric")}
	catalog.nilItem[5] = true
	catalog.files[6] = []domain.CandidateFile{stable(60, "1.20.1", "Fabric")}

	store := &fakeStore{
		mods: []domain.Mod{
			cfMod("NoFiles", 1, domain.ContentMod),
			cfMod("ForgeOnly", 2, domain.ContentMod),
			cfMod("OldFabric", 3, domain.ContentMod),
			cfMod("Broken", 4, domain.ContentMod),
			cfMod("LibraryDown", 5, domain.ContentMod),
			cfMod("AttachFails", 6, domain.ContentMod),
		},
		attachErr: map[string]error{"lib-6-60": errors.New("disk full")},
	}

	res, err := core.NewConverter(catalog, store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Success)
	assert.Equal(t, 6, res.Failed)
	assertCounts(t, res, 6)

	reasons := make([]string, len(res.Details))
	for i, d := range res.Details {
		assert.Equal(t, domain.OutcomeFailed, d.Status)
		reasons[i] = d.Reason
	}
	assert.Equal(t, []string{
		"No files found for 1.20.1 fabric",
		"Version 1.20.1 available but not for fabric",
		"fabric available for: 1.19.2",
		"curseforge API error (status 503)",
		"Failed to add to library",
		"disk full",
	}, reasons)

	groups := core.GroupFailures(res.Details)
	buckets := make([]domain.FailureBucket, len(groups))
	for i, g := range groups {
		buckets[i] = g.Bucket
	}
	assert.Equal(t, []domain.FailureBucket{
		domain.BucketNotAvailable, domain.BucketWrongLoader, domain.BucketWrongVersion, domain.BucketOther,
	}, buckets)
}

func TestConvert_SkipsNonCatalogMods(t *testing.T) {
	catalog := newFakeCatalog()
	store := &fakeStore{mods: []domain.Mod{
		{Name: "Local", Source: domain.SourceLocal, ProjectID: 12},
		{Name: "NoProject", Source: domain.SourceCurseForge},
	}}

	res, err := core.NewConverter(catalog, store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Skipped)
	assert.Empty(t, catalog.filters, "catalog is never queried for skipped mods")
}

func TestConvert_EmptySourceCreatesEmptyPack(t *testing.T) {
	store := &fakeStore{}

	res, err := core.NewConverter(newFakeCatalog(), store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)

	assert.Equal(t, "new-pack", res.ModpackID)
	assert.Empty(t, res.Details)
	assert.Zero(t, res.Total())
	assert.Len(t, store.created, 1)
}

func TestConvert_DefaultsModpackVersion(t *testing.T) {
	store := &fakeStore{}
	src := sourcePack()
	src.Version = ""

	_, err := core.NewConverter(newFakeCatalog(), store).Convert(context.Background(), src, "New", "1.20.1", "fabric")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultModpackVersion, store.created[0].Version)
}

func TestConvert_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		src     *domain.Modpack
		newName string
		version string
		loader  string
	}{
		{"nil source", nil, "New", "1.20.1", "fabric"},
		{"empty name", sourcePack(), "  ", "1.20.1", "fabric"},
		{"empty version", sourcePack(), "New", "", "fabric"},
		{"empty loader", sourcePack(), "New", "1.20.1", ""},
		{"same target", sourcePack(), "New", "1.19.2", "Forge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			res, err := core.NewConverter(newFakeCatalog(), store).Convert(context.Background(), tt.src, tt.newName, tt.version, tt.loader)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, domain.ErrInvalidConversion))
			assert.Zero(t, store.calls, "no store calls before preconditions pass")
		})
	}
}

func TestConvert_SameVersionDifferentLoaderAllowed(t *testing.T) {
	assert.NoError(t, core.ValidateConversion(sourcePack(), "New", "1.19.2", "fabric"))
	assert.NoError(t, core.ValidateConversion(sourcePack(), "New", "1.20.1", "forge"))
}

func TestConvert_ListModsFailureIsFatal(t *testing.T) {
	store := &fakeStore{listErr: domain.ErrModpackNotFound}

	res, err := core.NewConverter(newFakeCatalog(), store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrModpackNotFound))
	assert.Empty(t, store.created)
}

func TestConvert_CreateModpackFailureIsFatal(t *testing.T) {
	catalog := newFakeCatalog()
	store := &fakeStore{
		mods:      []domain.Mod{cfMod("A", 1, domain.ContentMod)},
		createErr: errors.New("constraint failed"),
	}

	res, err := core.NewConverter(catalog, store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint failed")
	assert.Empty(t, catalog.filters, "no mod is resolved without a destination")
}

func TestConvert_RecoversResolverPanic(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.panicOn[1] = true
	catalog.files[2] = []domain.CandidateFile{stable(20, "1.20.1", "fabric")}

	store := &fakeStore{mods: []domain.Mod{cfMod("Boom", 1, domain.ContentMod), cfMod("Fine", 2, domain.ContentMod)}}

	res, err := core.NewConverter(catalog, store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeFailed, res.Details[0].Status)
	assert.Contains(t, res.Details[0].Reason, "catalog exploded")
	assert.Equal(t, domain.OutcomeSuccess, res.Details[1].Status)
	assertCounts(t, res, 2)
}

// panickingStore panics when attaching one library item
type panickingStore struct {
	*fakeStore
	panicOn string
}

func (s *panickingStore) AddModToModpack(ctx context.Context, modpackID, modID string) error {
	if modID == s.panicOn {
		panic("store exploded")
	}
	return s.fakeStore.AddModToModpack(ctx, modpackID, modID)
}

func TestConvert_AttachPanicReleasesLock(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.files[1] = []domain.CandidateFile{stable(10, "1.20.1", "fabric")}
	catalog.files[2] = []domain.CandidateFile{stable(20, "1.20.1", "fabric")}

	store := &panickingStore{
		fakeStore: &fakeStore{mods: []domain.Mod{cfMod("Boom", 1, domain.ContentMod), cfMod("Fine", 2, domain.ContentMod)}},
		panicOn:   "lib-1-10",
	}

	type outcome struct {
		res *domain.ConversionResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := core.NewConverter(catalog, store).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
		done <- outcome{res, err}
	}()

	var got outcome
	select {
	case got = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("conversion did not finish after a panicking attach")
	}

	require.NoError(t, got.err)
	assertCounts(t, got.res, 2)
	assert.Equal(t, domain.OutcomeFailed, got.res.Details[0].Status)
	assert.Contains(t, got.res.Details[0].Reason, "store exploded")
	assert.Equal(t, domain.OutcomeSuccess, got.res.Details[1].Status)
	assert.Equal(t, []string{"lib-2-20"}, store.attached)
}

func TestConvert_ParallelKeepsSourceOrder(t *testing.T) {
	catalog := newFakeCatalog()
	var mods []domain.Mod
	for i := 1; i <= 30; i++ {
		if i%3 == 0 {
			catalog.files[i] = []domain.CandidateFile{stable(i*10, "1.18", "fabric")}
		} else {
			catalog.files[i] = []domain.CandidateFile{stable(i*10, "1.20.1", "fabric")}
		}
		mods = append(mods, cfMod(fmt.Sprintf("mod-%02d", i), i, domain.ContentMod))
	}
	store := &fakeStore{mods: mods}

	res, err := core.NewConverter(catalog, store, core.WithConcurrency(4)).Convert(context.Background(), sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)

	assertCounts(t, res, 30)
	assert.Equal(t, 20, res.Success)
	assert.Equal(t, 10, res.Failed)
	for i, d := range res.Details {
		assert.Equal(t, mods[i].Name, d.ModName)
	}
	assert.Len(t, store.attached, 20)
}

func TestConvert_ReportsProgress(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.files[1] = []domain.CandidateFile{stable(10, "1.20.1", "fabric")}
	store := &fakeStore{mods: []domain.Mod{cfMod("A", 1, domain.ContentMod), {Name: "B", Source: domain.SourceLocal}}}

	var seen []int
	var names []string
	ctx := context.WithValue(context.Background(), domain.ConvertProgressContextKey, domain.ConvertProgressFunc(func(done, total int, rec domain.OutcomeRecord) {
		assert.Equal(t, 2, total)
		seen = append(seen, done)
		names = append(names, rec.ModName)
	}))

	_, err := core.NewConverter(catalog, store).Convert(ctx, sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestConvert_CancelledRunRecordsRemainingMods(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.files[1] = []domain.CandidateFile{stable(10, "1.20.1", "fabric")}
	store := &fakeStore{mods: []domain.Mod{
		cfMod("A", 1, domain.ContentMod),
		cfMod("B", 2, domain.ContentMod),
		cfMod("C", 3, domain.ContentMod),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = context.WithValue(ctx, domain.ConvertProgressContextKey, domain.ConvertProgressFunc(func(done, _ int, _ domain.OutcomeRecord) {
		if done == 1 {
			cancel()
		}
	}))

	res, err := core.NewConverter(catalog, store).Convert(ctx, sourcePack(), "New", "1.20.1", "fabric")
	require.NoError(t, err)

	assertCounts(t, res, 3)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, domain.OutcomeRecord{ModName: "B", Status: domain.OutcomeSkipped, Reason: "Conversion cancelled"}, res.Details[1])
	assert.Equal(t, "C", res.Details[2].ModName)
}
