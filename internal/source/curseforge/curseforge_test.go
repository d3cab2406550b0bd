package curseforge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mpm/internal/domain"
	"mpm/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLibrary struct {
	saved []*domain.Mod
}

func (f *fakeLibrary) SaveLibraryItem(_ context.Context, mod *domain.Mod) error {
	mod.ID = "lib-1"
	f.saved = append(f.saved, mod)
	return nil
}

func newTestCatalog(t *testing.T, handler http.HandlerFunc, lib source.Library) *CurseForge {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cf := New(server.Client(), "test-api-key", lib, nil)
	cf.client.baseURL = server.URL
	return cf
}

func TestCurseForge_ImplementsCatalog(t *testing.T) {
	var _ source.Catalog = (*CurseForge)(nil)
}

func TestCurseForge_Identity(t *testing.T) {
	cf := New(nil, "", nil, nil)
	assert.Equal(t, "curseforge", cf.ID())
	assert.Equal(t, "CurseForge", cf.Name())
	assert.False(t, cf.IsAuthenticated())

	cf.SetAPIKey("key")
	assert.True(t, cf.IsAuthenticated())
}

func TestCurseForge_ListFiles(t *testing.T) {
	cf := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/mods/306612/files", r.URL.Path)
		assert.Equal(t, "1.20.1", r.URL.Query().Get("gameVersion"))
		assert.Equal(t, "4", r.URL.Query().Get("modLoaderType"))
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": 5001, "displayName": "fabric-api-0.92", "releaseType": 1, "gameVersions": ["1.20.1", "Fabric"]},
				{"id": 5000, "displayName": "fabric-api-0.91", "releaseType": 2, "gameVersions": ["1.20.1", "Fabric", "Quilt"]}
			],
			"pagination": {"index": 0, "pageSize": 50, "resultCount": 2, "totalCount": 2}
		}`))
	}, nil)

	files, err := cf.ListFiles(context.Background(), 306612, source.FileFilter{GameVersion: "1.20.1", Loader: "Fabric"})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, 5001, files[0].ID)
	assert.Equal(t, domain.ReleaseStable, files[0].ReleaseType)
	assert.Equal(t, []string{"1.20.1", "Fabric"}, files[0].GameVersions)
	assert.Equal(t, domain.ReleaseBeta, files[1].ReleaseType)
}

func TestCurseForge_Materialize(t *testing.T) {
	lib := &fakeLibrary{}
	cf := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/mods/306612/files/5001":
			_, _ = w.Write([]byte(`{"data": {"id": 5001, "modId": 306612, "isAvailable": true}}`))
		case "/v1/mods/306612":
			_, _ = w.Write([]byte(`{"data": {"id": 306612, "name": "Fabric API", "classId": 6, "categories": [{"id": 421}, {"id": 435}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}, lib)

	item, err := cf.Materialize(context.Background(), 306612, 5001, "fabric", "mods")
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, "lib-1", item.ID)
	assert.Equal(t, "Fabric API", item.Name)
	assert.Equal(t, 5001, item.FileID)
	assert.Equal(t, domain.ContentMod, item.ContentType)

	require.Len(t, lib.saved, 1)
	assert.Equal(t, domain.SourceCurseForge, lib.saved[0].Source)
	assert.Equal(t, []int{421, 435}, lib.saved[0].CategoryIDs)
	assert.True(t, lib.saved[0].Enabled)
}

func TestCurseForge_Materialize_Unavailable(t *testing.T) {
	lib := &fakeLibrary{}
	cf := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"id": 7, "modId": 1, "isAvailable": false}}`))
	}, lib)

	item, err := cf.Materialize(context.Background(), 1, 7, "", "shaders")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Empty(t, lib.saved)
}

func TestCurseForge_Materialize_NoLibrary(t *testing.T) {
	cf := New(nil, "", nil, nil)

	_, err := cf.Materialize(context.Background(), 1, 2, "", "mods")
	assert.Error(t, err)
}

func TestCurseForge_Search(t *testing.T) {
	cf := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "12", q.Get("classId"))
		assert.Empty(t, q.Get("modLoaderType"), "resource packs are not loader specific")
		assert.Equal(t, "20", q.Get("index"))
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": 9, "name": "Faithful", "slug": "faithful", "classId": 12, "downloadCount": 42, "authors": [{"id": 1, "name": "xMrVizzy"}]}
			],
			"pagination": {"index": 20, "pageSize": 20, "resultCount": 1, "totalCount": 21}
		}`))
	}, nil)

	result, err := cf.Search(context.Background(), source.SearchQuery{
		GameVersion: "1.20.1",
		Loader:      "fabric",
		ContentType: domain.ContentResourcePack,
		Page:        1,
	})
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)

	p := result.Projects[0]
	assert.Equal(t, 9, p.ID)
	assert.Equal(t, "Faithful", p.Name)
	assert.Equal(t, "xMrVizzy", p.Author)
	assert.Equal(t, domain.ContentResourcePack, p.ContentType)
	assert.Equal(t, 21, result.TotalCount)
	assert.Equal(t, 20, result.PageSize)
}

func TestLoaderType(t *testing.T) {
	tests := []struct {
		loader string
		want   int
	}{
		{"forge", ModLoaderForge},
		{"Fabric", ModLoaderFabric},
		{" quilt ", ModLoaderQuilt},
		{"NeoForge", ModLoaderNeoForge},
		{"", ModLoaderAny},
		{"rift", ModLoaderAny},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, loaderType(tt.loader), tt.loader)
	}
}
