package core

import (
	"fmt"
	"regexp"
	"strings"

	"mpm/internal/domain"

	"golang.org/x/text/cases"
)

const (
	maxLoaderVersionsListed = 3
	maxPackVersionsListed   = 5
)

// mcVersionRegex matches Minecraft release tags such as "1.20" or "1.20.1"
var mcVersionRegex = regexp.MustCompile(`^1\.\d+(?:\.\d+)?$`)

// target is the game version and loader a modpack is being converted to
type target struct {
	version string
	loader  string
}

// fold returns the case-folded form of s for case-insensitive comparison.
// A Caser holds state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// hasTag reports whether the file's flat tag list contains tag, ignoring case
func hasTag(f domain.CandidateFile, tag string) bool {
	want := fold(tag)
	for _, t := range f.GameVersions {
		if fold(t) == want {
			return true
		}
	}
	return false
}

// versionCompatible reports whether tag equals the target version or extends it
// by dotted sub-versions in either direction ("1.20" ~ "1.20.1").
func versionCompatible(tag, version string) bool {
	if tag == version {
		return true
	}
	return strings.HasPrefix(tag, version+".") || strings.HasPrefix(version, tag+".")
}

// selectFile picks the file to install for a target.
// Mod content needs a file tagged with both the exact version and the loader;
// the first such file in catalog order wins. Resource packs and shaders ignore
// the loader and fall back to the first stable release, then the first file.
func selectFile(files []domain.CandidateFile, t target, isMod bool) (domain.CandidateFile, bool) {
	if isMod {
		for _, f := range files {
			if hasTag(f, t.version) && hasTag(f, t.loader) {
				return f, true
			}
		}
		return domain.CandidateFile{}, false
	}

	for _, f := range files {
		for _, tag := range f.GameVersions {
			if versionCompatible(tag, t.version) {
				return f, true
			}
		}
	}
	for _, f := range files {
		if f.ReleaseType == domain.ReleaseStable {
			return f, true
		}
	}
	if len(files) > 0 {
		return files[0], true
	}
	return domain.CandidateFile{}, false
}

// noFilesReason is the failure reason when the catalog returned nothing
func noFilesReason(t target, isMod bool) string {
	if isMod {
		return fmt.Sprintf("No files found for %s %s", t.version, t.loader)
	}
	return fmt.Sprintf("No files found for %s", t.version)
}

// diagnose explains why no file matched the target
func diagnose(files []domain.CandidateFile, t target, isMod bool) string {
	if !isMod {
		versions := extractVersions(files, maxPackVersionsListed)
		if len(versions) == 0 {
			return fmt.Sprintf("Not available for %s. Available: unknown", t.version)
		}
		return fmt.Sprintf("Not available for %s. Available: %s", t.version, strings.Join(versions, ", "))
	}

	var withLoader, withVersion []domain.CandidateFile
	for _, f := range files {
		if hasTag(f, t.loader) {
			withLoader = append(withLoader, f)
		}
		if hasTag(f, t.version) {
			withVersion = append(withVersion, f)
		}
	}

	switch {
	case len(withVersion) > 0 && len(withLoader) == 0:
		return fmt.Sprintf("Version %s available but not for %s", t.version, t.loader)
	case len(withLoader) > 0 && len(withVersion) == 0:
		versions := extractVersions(withLoader, maxLoaderVersionsListed)
		if len(versions) == 0 {
			return fmt.Sprintf("%s available for: unknown versions", t.loader)
		}
		return fmt.Sprintf("%s available for: %s", t.loader, strings.Join(versions, ", "))
	default:
		return fmt.Sprintf("No compatible file for %s %s", t.version, t.loader)
	}
}

// extractVersions collects up to limit distinct Minecraft version tags in catalog order
func extractVersions(files []domain.CandidateFile, limit int) []string {
	seen := make(map[string]bool)
	var versions []string
	for _, f := range files {
		for _, tag := range f.GameVersions {
			if !mcVersionRegex.MatchString(tag) || seen[tag] {
				continue
			}
			seen[tag] = true
			versions = append(versions, tag)
			if len(versions) == limit {
				return versions
			}
		}
	}
	return versions
}
