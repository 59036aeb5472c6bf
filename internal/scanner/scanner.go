package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"kevscan/internal/cache"
	"kevscan/internal/clients"
	"kevscan/internal/models"
	"kevscan/internal/parsers"
)

// skipDirs are directories never worth descending into: package trees,
// build output, VCS metadata
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"vendor":       true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
}

// Scanner orchestrates the vulnerability scanning process
type Scanner struct {
	config     *models.Config
	parsers    []parsers.Parser
	kevClient  *clients.KEVClient
	osvClient  *clients.OSVClient
	epssClient *clients.EPSSClient
}

// New creates a new Scanner with the given configuration
func New(config *models.Config) (*Scanner, error) {
	var c *cache.Cache
	var err error

	if !config.NoCache {
		c, err = cache.New("kevscan", config.CacheTTL)
		if err != nil {
			// Non-fatal: continue without cache
			c = nil
		}
	}

	return &Scanner{
		config:     config,
		parsers:    parsers.GetAllParsers(),
		kevClient:  clients.NewKEVClient(c),
		osvClient:  clients.NewOSVClient(),
		epssClient: clients.NewEPSSClient(),
	}, nil
}

// Scan performs the full vulnerability scan
func (s *Scanner) Scan(ctx context.Context) ([]models.Finding, error) {
	// Step 1: Discover and parse dependency files
	deps, err := s.discoverDependencies()
	if err != nil {
		return nil, fmt.Errorf("failed to discover dependencies: %w", err)
	}

	if s.config.DirectOnly {
		deps = filterDirect(deps, s.config.IncludeUnknown)
	}

	if len(deps) == 0 {
		return nil, nil
	}

	// Step 2: Fetch KEV catalog (cached)
	kevCatalog, err := s.kevClient.FetchKEVCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch KEV catalog: %w", err)
	}

	// Step 3: Query OSV for CVEs affecting dependencies
	cvesByDep, err := s.osvClient.QueryBatch(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to query OSV: %w", err)
	}

	// Step 4: Cross-reference with KEV and build findings
	var findings []models.Finding
	var allKEVCVEs []string

	for depIdx, cves := range cvesByDep {
		finding := models.Finding{
			Dependency: deps[depIdx],
			CVEs:       cves,
		}

		for _, cve := range cves {
			if kevInfo, isKEV := kevCatalog[cve.ID]; isKEV {
				finding.KEVs = append(finding.KEVs, kevInfo)
				allKEVCVEs = append(allKEVCVEs, cve.ID)
			}
		}

		// Only keep findings that have KEV matches
		if finding.HasKEV() {
			findings = append(findings, finding)
		}
	}

	// Step 5: Enrich with EPSS scores
	if len(allKEVCVEs) > 0 {
		epssScores, _ := s.epssClient.FetchScores(allKEVCVEs)
		for i := range findings {
			for j := range findings[i].KEVs {
				if score, ok := epssScores[findings[i].KEVs[j].CVEID]; ok {
					findings[i].KEVs[j].EPSSScore = score.Score
					findings[i].KEVs[j].EPSSPercentile = score.Percentile
				}
			}
		}
	}

	// Step 6: Filter by EPSS threshold if configured
	if s.config.EPSSThreshold > 0 {
		findings = filterByEPSS(findings, s.config.EPSSThreshold)
	}

	return findings, nil
}

func filterDirect(deps []models.Dependency, includeUnknown bool) []models.Dependency {
	var kept []models.Dependency
	for _, d := range deps {
		switch d.Transitivity {
		case models.TransitivityDirect:
			kept = append(kept, d)
		case models.TransitivityUnknown, "":
			if includeUnknown {
				kept = append(kept, d)
			}
		}
	}
	return kept
}

func filterByEPSS(findings []models.Finding, threshold float64) []models.Finding {
	var filtered []models.Finding
	for _, f := range findings {
		var keptKEVs []models.KEVInfo
		for _, kev := range f.KEVs {
			if kev.EPSSScore >= threshold {
				keptKEVs = append(keptKEVs, kev)
			}
		}
		if len(keptKEVs) > 0 {
			f.KEVs = keptKEVs
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// discoverDependencies walks the configured paths and parses dependency files
func (s *Scanner) discoverDependencies() ([]models.Dependency, error) {
	var allDeps []models.Dependency

	for _, path := range s.config.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
		}

		if !info.IsDir() {
			deps, err := s.parseFile(path)
			if err != nil {
				return nil, err
			}
			allDeps = append(allDeps, deps...)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}

			deps, err := s.parseFile(p)
			if err != nil {
				// Don't fail the scan on individual file parse errors
				return nil
			}
			allDeps = append(allDeps, deps...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return allDeps, nil
}

// parseFile attempts to parse a file with any matching parser
func (s *Scanner) parseFile(path string) ([]models.Dependency, error) {
	filename := filepath.Base(path)

	for _, parser := range s.parsers {
		if parser.CanParse(filename) {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return parser.Parse(path, content)
		}
	}

	return nil, nil // No matching parser
}
