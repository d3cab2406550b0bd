package core

import (
	"context"
	"fmt"
	"sort"

	"mpm/internal/domain"
	"mpm/internal/source"

	"go.uber.org/zap"
)

const (
	defaultRecommendLimit = 10
	maxRecommendPages     = 3
)

// Recommend suggests popular catalog mods for a modpack's version and loader
// that the modpack does not already contain. Projects from the modpack's most
// common category come first, topped up from the whole catalog.
func (s *Service) Recommend(ctx context.Context, ref string, limit int) ([]domain.CatalogProject, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	mp, err := s.db.FindModpack(ctx, ref)
	if err != nil {
		return nil, err
	}
	mods, err := s.db.ListMods(ctx, mp.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	for i := range mods {
		if mods[i].HasCatalogProject() {
			seen[mods[i].ProjectID] = true
		}
	}

	catalog, err := s.catalog(domain.SourceCurseForge)
	if err != nil {
		return nil, err
	}

	categories := []int{0}
	if cat := topCategory(mods); cat != 0 {
		categories = []int{cat, 0}
	}

	var picks []domain.CatalogProject
	for _, cat := range categories {
		for page := 0; page < maxRecommendPages && len(picks) < limit; page++ {
			res, err := catalog.Search(ctx, source.SearchQuery{
				GameVersion: mp.MinecraftVersion,
				Loader:      mp.Loader,
				ContentType: domain.ContentMod,
				CategoryID:  cat,
				Page:        page,
				PageSize:    limit,
			})
			if err != nil {
				return nil, fmt.Errorf("searching recommendations: %w", err)
			}

			for _, p := range res.Projects {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
				picks = append(picks, p)
				if len(picks) == limit {
					break
				}
			}
			if len(res.Projects) < res.PageSize {
				break
			}
		}
		if len(picks) >= limit {
			break
		}
	}

	s.logger.Debug("recommendations",
		zap.String("modpack", mp.Name),
		zap.Int("installed", len(mods)),
		zap.Int("found", len(picks)))

	return picks, nil
}

// topCategory returns the catalog category shared by most mods, lowest ID on ties, or 0
func topCategory(mods []domain.Mod) int {
	counts := make(map[int]int)
	for _, m := range mods {
		for _, c := range m.CategoryIDs {
			counts[c]++
		}
	}
	if len(counts) == 0 {
		return 0
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	best := ids[0]
	for _, id := range ids[1:] {
		if counts[id] > counts[best] {
			best = id
		}
	}
	return best
}
