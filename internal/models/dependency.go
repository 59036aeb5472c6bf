package models

// Ecosystem represents a package ecosystem
type Ecosystem string

const (
	EcosystemPyPI  Ecosystem = "PyPI"
	EcosystemNpm   Ecosystem = "npm"
	EcosystemGo    Ecosystem = "Go"
	EcosystemMaven Ecosystem = "Maven"
)

// Transitivity records how a dependency entered the project
type Transitivity string

const (
	// TransitivityDirect means the project declares the dependency itself
	TransitivityDirect Transitivity = "direct"

	// TransitivityTransitive means the dependency was pulled in via another one
	TransitivityTransitive Transitivity = "transitive"

	// TransitivityUnknown is used when the source file doesn't say
	TransitivityUnknown Transitivity = "unknown"
)

// Dependency represents a single package dependency
type Dependency struct {
	Name         string
	Version      string
	Ecosystem    Ecosystem
	Transitivity Transitivity
	SourceFile   string // File where this dependency was found
	Line         int    // Line number in source file (if available)

	// AllowedHashes maps hash algorithm -> pinned digests, when the source
	// file pins them (e.g. package-lock.json integrity). Empty otherwise.
	AllowedHashes map[string][]string
}

// String returns a human-readable representation
func (d Dependency) String() string {
	return d.Name + "@" + d.Version
}

// IsTransitive reports whether the dependency is known to be transitive
func (d Dependency) IsTransitive() bool {
	return d.Transitivity == TransitivityTransitive
}
