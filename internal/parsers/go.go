package parsers

import (
	"strings"

	"golang.org/x/mod/modfile"

	"kevscan/internal/models"
)

// GoModParser parses go.mod files
type GoModParser struct {
	IncludeIndirect bool // Whether to include indirect dependencies
}

// CanParse returns true for go.mod files
func (p *GoModParser) CanParse(filename string) bool {
	return filename == "go.mod"
}

// Parse extracts dependencies from go.mod content
func (p *GoModParser) Parse(filepath string, content []byte) ([]models.Dependency, error) {
	mod, err := modfile.Parse(filepath, content, nil)
	if err != nil {
		return nil, err
	}

	var deps []models.Dependency

	for _, req := range mod.Require {
		// Skip indirect deps unless explicitly requested
		if req.Indirect && !p.IncludeIndirect {
			continue
		}

		transitivity := models.TransitivityDirect
		if req.Indirect {
			transitivity = models.TransitivityTransitive
		}

		line := 0
		if req.Syntax != nil {
			line = req.Syntax.Start.Line
		}

		deps = append(deps, models.Dependency{
			Name: req.Mod.Path,
			// Strip the v prefix for OSV
			Version:      strings.TrimPrefix(req.Mod.Version, "v"),
			Ecosystem:    models.EcosystemGo,
			Transitivity: transitivity,
			SourceFile:   filepath,
			Line:         line,
		})
	}

	return deps, nil
}
