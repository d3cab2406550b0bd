package core

import (
	"sort"
	"strconv"

	"mpm/internal/domain"
)

// modKey identifies a mod for comparison and profile matching.
// Catalog mods match on source and project; everything else on the folded name.
func modKey(m domain.Mod) string {
	if m.HasCatalogProject() {
		return m.Source + ":" + strconv.Itoa(m.ProjectID)
	}
	return m.Source + ":name:" + fold(m.Name)
}

// keyOf returns the portable ModKey for a mod
func keyOf(m domain.Mod) domain.ModKey {
	k := domain.ModKey{Source: m.Source, Name: m.Name}
	if m.HasCatalogProject() {
		k.ProjectID = m.ProjectID
	}
	return k
}

// keyString is modKey for a stored ModKey
func keyString(k domain.ModKey) string {
	return modKey(domain.Mod{Source: k.Source, ProjectID: k.ProjectID, Name: k.Name})
}

// CompareModpacks diffs two mod lists. Mods sharing a key pair up by count, so
// a key held twice on the left and once on the right leaves one left-only mod.
// Each side of the result is sorted by name.
func CompareModpacks(left, right []domain.Mod) domain.Comparison {
	rightByKey := make(map[string][]int, len(right))
	for i, m := range right {
		k := modKey(m)
		rightByKey[k] = append(rightByKey[k], i)
	}

	var cmp domain.Comparison
	paired := make([]bool, len(right))
	for _, m := range left {
		k := modKey(m)
		queue := rightByKey[k]
		if len(queue) == 0 {
			cmp.OnlyLeft = append(cmp.OnlyLeft, m)
			continue
		}
		paired[queue[0]] = true
		cmp.Both = append(cmp.Both, domain.ModPair{Left: m, Right: right[queue[0]]})
		rightByKey[k] = queue[1:]
	}
	for i, m := range right {
		if !paired[i] {
			cmp.OnlyRight = append(cmp.OnlyRight, m)
		}
	}

	sortMods(cmp.OnlyLeft)
	sortMods(cmp.OnlyRight)
	sort.SliceStable(cmp.Both, func(i, j int) bool {
		return fold(cmp.Both[i].Left.Name) < fold(cmp.Both[j].Left.Name)
	})
	return cmp
}

func sortMods(mods []domain.Mod) {
	sort.SliceStable(mods, func(i, j int) bool {
		return fold(mods[i].Name) < fold(mods[j].Name)
	})
}
