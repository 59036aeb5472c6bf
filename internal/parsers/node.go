package parsers

import (
	"encoding/json"
	"strings"

	"kevscan/internal/models"
)

// NodePackageLockParser parses package-lock.json files
type NodePackageLockParser struct{}

// CanParse returns true for package-lock.json files
func (p *NodePackageLockParser) CanParse(filename string) bool {
	return filename == "package-lock.json"
}

// packageLock represents the structure of package-lock.json (v1-v3)
type packageLock struct {
	LockfileVersion int `json:"lockfileVersion"`
	// V2/V3 format
	Packages map[string]lockEntry `json:"packages"`
	// V1 format
	Dependencies map[string]lockEntry `json:"dependencies"`
}

type lockEntry struct {
	Version   string `json:"version"`
	Dev       bool   `json:"dev"`
	Integrity string `json:"integrity"`
}

// Parse extracts dependencies from package-lock.json content
func (p *NodePackageLockParser) Parse(filepath string, content []byte) ([]models.Dependency, error) {
	var lock packageLock
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, err
	}

	var deps []models.Dependency
	seen := make(map[string]bool)

	// V2/V3 format (packages map)
	for path, pkg := range lock.Packages {
		if path == "" {
			continue // Skip root package
		}

		// Extract the package name from a path like "node_modules/lodash"
		// or "node_modules/a/node_modules/@types/node"
		name := path
		if idx := strings.LastIndex(name, "node_modules/"); idx >= 0 {
			name = name[idx+len("node_modules/"):]
		}

		if name == "" || seen[name+"@"+pkg.Version] {
			continue
		}
		seen[name+"@"+pkg.Version] = true

		deps = append(deps, models.Dependency{
			Name:    name,
			Version: pkg.Version,
			// The lock flattens the tree, so directness is not recoverable
			// from the entry alone
			Ecosystem:     models.EcosystemNpm,
			Transitivity:  models.TransitivityUnknown,
			SourceFile:    filepath,
			AllowedHashes: integrityHashes(pkg.Integrity),
		})
	}

	// V1 format fallback (if no packages found)
	if len(deps) == 0 {
		for name, pkg := range lock.Dependencies {
			deps = append(deps, models.Dependency{
				Name:          name,
				Version:       pkg.Version,
				Ecosystem:     models.EcosystemNpm,
				Transitivity:  models.TransitivityUnknown,
				SourceFile:    filepath,
				AllowedHashes: integrityHashes(pkg.Integrity),
			})
		}
	}

	return deps, nil
}

// integrityHashes splits an SRI string like "sha512-deadbeef... sha1-cafe..."
// into algorithm -> digests
func integrityHashes(integrity string) map[string][]string {
	hashes := map[string][]string{}
	for _, entry := range strings.Fields(integrity) {
		algo, digest, ok := strings.Cut(entry, "-")
		if !ok {
			continue
		}
		hashes[algo] = append(hashes[algo], digest)
	}
	return hashes
}

// NodePackageJSONParser parses package.json files (direct dependencies only)
type NodePackageJSONParser struct{}

// CanParse returns true for package.json files
func (p *NodePackageJSONParser) CanParse(filename string) bool {
	return filename == "package.json"
}

// packageJSON represents the structure of package.json
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Parse extracts dependencies from package.json content
func (p *NodePackageJSONParser) Parse(filepath string, content []byte) ([]models.Dependency, error) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, err
	}

	var deps []models.Dependency

	add := func(name, version string) {
		deps = append(deps, models.Dependency{
			Name:         name,
			Version:      cleanNpmVersion(version),
			Ecosystem:    models.EcosystemNpm,
			Transitivity: models.TransitivityDirect,
			SourceFile:   filepath,
		})
	}

	for name, version := range pkg.Dependencies {
		add(name, version)
	}
	for name, version := range pkg.DevDependencies {
		add(name, version)
	}

	return deps, nil
}

// cleanNpmVersion removes range prefixes like ^, ~, >=
func cleanNpmVersion(version string) string {
	for _, prefix := range []string{"^", "~", ">=", ">", "<=", "<", "="} {
		if v, ok := strings.CutPrefix(version, prefix); ok {
			return v
		}
	}
	return version
}
