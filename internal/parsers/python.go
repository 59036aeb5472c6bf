package parsers

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"kevscan/internal/models"
)

// PythonRequirementsParser parses requirements.txt files
type PythonRequirementsParser struct{}

// CanParse returns true for requirements.txt files
func (p *PythonRequirementsParser) CanParse(filename string) bool {
	return filename == "requirements.txt" ||
		strings.HasSuffix(filename, "-requirements.txt") ||
		strings.HasSuffix(filename, "_requirements.txt") ||
		filename == "requirements-dev.txt" ||
		filename == "requirements-test.txt"
}

// versionPattern matches package version specifiers like ==1.2.3, >=1.2.3, ~=1.2.3
var versionPattern = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\s*([<>=!~]+)\s*([\d.]+.*)$`)

// simplePattern matches just package names without versions
var simplePattern = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\s*$`)

// Parse extracts dependencies from requirements.txt content
func (p *PythonRequirementsParser) Parse(filepath string, content []byte) ([]models.Dependency, error) {
	var deps []models.Dependency

	for lineNum, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)

		// Skip empty lines, comments, and pip options
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		// Strip inline comments
		if idx := strings.Index(line, "#"); idx > 0 {
			line = strings.TrimSpace(line[:idx])
		}

		line = stripExtras(line)

		name, version := parseVersionSpec(line)
		if name != "" {
			deps = append(deps, models.Dependency{
				Name:         strings.ToLower(name), // PyPI is case-insensitive
				Version:      version,
				Ecosystem:    models.EcosystemPyPI,
				Transitivity: models.TransitivityDirect,
				SourceFile:   filepath,
				Line:         lineNum + 1,
			})
		}
	}

	return deps, nil
}

// stripExtras removes an extras bracket like flask[async]
func stripExtras(spec string) string {
	idx := strings.Index(spec, "[")
	if idx <= 0 {
		return spec
	}
	end := strings.Index(spec, "]")
	if end <= idx {
		return spec
	}
	return strings.TrimSpace(spec[:idx] + spec[end+1:])
}

func parseVersionSpec(line string) (name string, version string) {
	if matches := versionPattern.FindStringSubmatch(line); matches != nil {
		return matches[1], matches[3]
	}
	if matches := simplePattern.FindStringSubmatch(line); matches != nil {
		return matches[1], ""
	}
	return "", ""
}

// PythonPyProjectParser parses pyproject.toml files
type PythonPyProjectParser struct{}

// CanParse returns true for pyproject.toml files
func (p *PythonPyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

// pyproject represents the structure of pyproject.toml
type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]interface{} `toml:"dependencies"`
			DevDependencies map[string]interface{} `toml:"dev-dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Parse extracts dependencies from pyproject.toml content
func (p *PythonPyProjectParser) Parse(filepath string, content []byte) ([]models.Dependency, error) {
	var proj pyproject
	if err := toml.Unmarshal(content, &proj); err != nil {
		return nil, err
	}

	var deps []models.Dependency

	// PEP 621 dependencies (project.dependencies)
	for _, dep := range proj.Project.Dependencies {
		name, version := parsePEP508(dep)
		if name != "" {
			deps = append(deps, models.Dependency{
				Name:         strings.ToLower(name),
				Version:      version,
				Ecosystem:    models.EcosystemPyPI,
				Transitivity: models.TransitivityDirect,
				SourceFile:   filepath,
			})
		}
	}

	// Poetry dependencies
	for name, val := range proj.Tool.Poetry.Dependencies {
		if name == "python" {
			continue
		}
		deps = append(deps, models.Dependency{
			Name:         strings.ToLower(name),
			Version:      extractPoetryVersion(val),
			Ecosystem:    models.EcosystemPyPI,
			Transitivity: models.TransitivityDirect,
			SourceFile:   filepath,
		})
	}

	return deps, nil
}

// parsePEP508 parses a PEP 508 dependency specification like
// "requests>=2.28.0" or "flask[async]>=2.0; python_version>'3.8'"
func parsePEP508(spec string) (name string, version string) {
	spec = stripExtras(spec)

	// Drop environment markers
	if idx := strings.Index(spec, ";"); idx > 0 {
		spec = spec[:idx]
	}

	return parseVersionSpec(strings.TrimSpace(spec))
}

func extractPoetryVersion(val interface{}) string {
	switch v := val.(type) {
	case string:
		return trimCaretTilde(v)
	case map[string]interface{}:
		if ver, ok := v["version"].(string); ok {
			return trimCaretTilde(ver)
		}
	}
	return ""
}

func trimCaretTilde(v string) string {
	v = strings.TrimPrefix(v, "^")
	return strings.TrimPrefix(v, "~")
}
