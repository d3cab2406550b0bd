package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType_IsMod(t *testing.T) {
	tests := []struct {
		name     string
		ct       ContentType
		expected bool
	}{
		{"empty defaults to mod", "", true},
		{"mod", ContentMod, true},
		{"resource pack", ContentResourcePack, false},
		{"shader", ContentShader, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ct.IsMod())
		})
	}
}

func TestContentType_CatalogClass(t *testing.T) {
	assert.Equal(t, "mods", ContentType("").CatalogClass())
	assert.Equal(t, "mods", ContentMod.CatalogClass())
	assert.Equal(t, "resourcepacks", ContentResourcePack.CatalogClass())
	assert.Equal(t, "shaders", ContentShader.CatalogClass())
	assert.Equal(t, "mods", ContentType("datapack").CatalogClass())
}

func TestParseContentType(t *testing.T) {
	assert.Equal(t, ContentShader, ParseContentType("shader"))
	assert.Equal(t, ContentResourcePack, ParseContentType("resourcepack"))
	assert.Equal(t, ContentMod, ParseContentType(""))
	assert.Equal(t, ContentMod, ParseContentType("bogus"))
}

func TestMod_HasCatalogProject(t *testing.T) {
	tests := []struct {
		name string
		mod  Mod
		want bool
	}{
		{"curseforge with project", Mod{Source: SourceCurseForge, ProjectID: 1}, true},
		{"curseforge without project", Mod{Source: SourceCurseForge}, false},
		{"other source", Mod{Source: "modrinth", ProjectID: 1}, false},
		{"local", Mod{Source: SourceLocal}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mod.HasCatalogProject())
		})
	}
}

func TestModpack_IsReadOnly(t *testing.T) {
	assert.False(t, (&Modpack{}).IsReadOnly())
	assert.True(t, (&Modpack{RemoteSourceURL: "https://example.com/pack.zip"}).IsReadOnly())
}

func TestConversionResult_Total(t *testing.T) {
	r := ConversionResult{Success: 2, Failed: 1, Skipped: 3}
	assert.Equal(t, 6, r.Total())
}
