package main

import (
	"time"

	"mpm/internal/domain"
)

type modpackJSON struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Version          string    `json:"version"`
	MinecraftVersion string    `json:"minecraftVersion"`
	Loader           string    `json:"loader"`
	Description      string    `json:"description,omitempty"`
	RemoteSourceURL  string    `json:"remoteSourceUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type modJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Source      string `json:"source"`
	ProjectID   int    `json:"projectId,omitempty"`
	FileID      int    `json:"fileId,omitempty"`
	CategoryIDs []int  `json:"categoryIds,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type modpackShowJSON struct {
	Modpack modpackJSON `json:"modpack"`
	Mods    []modJSON   `json:"mods"`
}

type projectJSON struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Author      string `json:"author,omitempty"`
	Downloads   int64  `json:"downloads"`
	ContentType string `json:"contentType"`
}

type comparisonJSON struct {
	Left      string   `json:"left"`
	Right     string   `json:"right"`
	OnlyLeft  []string `json:"onlyLeft"`
	OnlyRight []string `json:"onlyRight"`
	Both      []string `json:"both"`
}

func toModpackJSON(mp domain.Modpack) modpackJSON {
	return modpackJSON{
		ID:               mp.ID,
		Name:             mp.Name,
		Version:          mp.Version,
		MinecraftVersion: mp.MinecraftVersion,
		Loader:           mp.Loader,
		Description:      mp.Description,
		RemoteSourceURL:  mp.RemoteSourceURL,
		CreatedAt:        mp.CreatedAt,
	}
}

func toModsJSON(mods []domain.Mod) []modJSON {
	out := make([]modJSON, len(mods))
	for i, m := range mods {
		out[i] = modJSON{
			ID:          m.ID,
			Name:        m.Name,
			ContentType: string(m.ContentType),
			Source:      m.Source,
			ProjectID:   m.ProjectID,
			FileID:      m.FileID,
			CategoryIDs: m.CategoryIDs,
			Enabled:     m.Enabled,
		}
	}
	return out
}

func toProjectsJSON(projects []domain.CatalogProject) []projectJSON {
	out := make([]projectJSON, len(projects))
	for i, p := range projects {
		out[i] = projectJSON{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			Summary:     p.Summary,
			Author:      p.Author,
			Downloads:   p.Downloads,
			ContentType: string(p.ContentType),
		}
	}
	return out
}

func modNames(mods []domain.Mod) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}
