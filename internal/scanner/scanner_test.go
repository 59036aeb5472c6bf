package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kevscan/internal/models"
	"kevscan/internal/parsers"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestScanner(paths ...string) *Scanner {
	config := models.DefaultConfig()
	config.Paths = paths
	return &Scanner{
		config:  config,
		parsers: parsers.GetAllParsers(),
	}
}

func TestDiscoverDependencies(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "requirements.txt"), "requests==2.28.0\n")
	writeFile(t, filepath.Join(dir, "maven_dep_tree.txt"),
		"com.example:app:jar:1.0\n+- org.apache.logging.log4j:log4j-api:jar:2.14.0:compile\n")
	// These live in skipped directories and must not be picked up
	writeFile(t, filepath.Join(dir, "node_modules", "x", "package.json"), `{"dependencies":{"left-pad":"1.0.0"}}`)
	writeFile(t, filepath.Join(dir, "target", "requirements.txt"), "stale==0.0.1\n")

	s := newTestScanner(dir)
	deps, err := s.discoverDependencies()
	require.NoError(t, err)
	require.Len(t, deps, 2)

	names := map[string]models.Ecosystem{}
	for _, d := range deps {
		names[d.Name] = d.Ecosystem
	}
	assert.Equal(t, models.EcosystemPyPI, names["requests"])
	assert.Equal(t, models.EcosystemMaven, names["log4j-api"])
}

func TestDiscoverDependencies_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maven_dep_tree.txt")
	writeFile(t, path,
		"com.example:app:jar:1.0\n+- junit:junit:jar:4.13.2:test\n")

	s := newTestScanner(path)
	deps, err := s.discoverDependencies()
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "junit", deps[0].Name)
	assert.Equal(t, path, deps[0].SourceFile)
}

func TestDiscoverDependencies_MalformedTreeContributesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maven_dep_tree.txt"), "com.example:app:jar:1.0\ngarbage\n")
	writeFile(t, filepath.Join(dir, "requirements.txt"), "requests==2.28.0\n")

	s := newTestScanner(dir)
	deps, err := s.discoverDependencies()
	require.NoError(t, err)
	// The broken tree yields zero deps silently; the scan still sees the rest
	require.Len(t, deps, 1)
	assert.Equal(t, "requests", deps[0].Name)
}

func TestDiscoverDependencies_MissingPath(t *testing.T) {
	s := newTestScanner(filepath.Join(t.TempDir(), "nope"))
	_, err := s.discoverDependencies()
	assert.Error(t, err)
}

func TestFilterDirect(t *testing.T) {
	deps := []models.Dependency{
		{Name: "a", Transitivity: models.TransitivityDirect},
		{Name: "b", Transitivity: models.TransitivityTransitive},
		{Name: "c", Transitivity: models.TransitivityUnknown},
	}

	kept := filterDirect(deps, true)
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Name)
	assert.Equal(t, "c", kept[1].Name)

	kept = filterDirect(deps, false)
	require.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].Name)
}

func TestFilterByEPSS(t *testing.T) {
	findings := []models.Finding{
		{
			Dependency: models.Dependency{Name: "a"},
			KEVs: []models.KEVInfo{
				{CVEID: "CVE-1", EPSSScore: 0.5},
				{CVEID: "CVE-2", EPSSScore: 0.01},
			},
		},
		{
			Dependency: models.Dependency{Name: "b"},
			KEVs:       []models.KEVInfo{{CVEID: "CVE-3", EPSSScore: 0.02}},
		},
	}

	filtered := filterByEPSS(findings, 0.1)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].Dependency.Name)
	require.Len(t, filtered[0].KEVs, 1)
	assert.Equal(t, "CVE-1", filtered[0].KEVs[0].CVEID)
}
