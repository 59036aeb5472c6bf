package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kevscan/internal/models"
)

func TestPythonRequirementsParser(t *testing.T) {
	content := `# pinned deps
requests==2.28.0
Flask[async]>=2.0.1  # web framework

-r other-requirements.txt
django
`

	p := &PythonRequirementsParser{}
	deps, err := p.Parse("requirements.txt", []byte(content))
	require.NoError(t, err)
	require.Len(t, deps, 3)

	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, "2.28.0", deps[0].Version)
	assert.Equal(t, 2, deps[0].Line)
	assert.Equal(t, models.TransitivityDirect, deps[0].Transitivity)

	assert.Equal(t, "flask", deps[1].Name, "PyPI names are lowercased")
	assert.Equal(t, "2.0.1", deps[1].Version)
	assert.Equal(t, 3, deps[1].Line)

	assert.Equal(t, "django", deps[2].Name)
	assert.Empty(t, deps[2].Version)
}

func TestPythonRequirementsParser_CanParse(t *testing.T) {
	p := &PythonRequirementsParser{}
	assert.True(t, p.CanParse("requirements.txt"))
	assert.True(t, p.CanParse("dev-requirements.txt"))
	assert.True(t, p.CanParse("requirements-dev.txt"))
	assert.False(t, p.CanParse("requirements.in"))
}

func TestPythonPyProjectParser(t *testing.T) {
	content := `[project]
dependencies = [
  "requests>=2.28.0",
  "flask[async]>=2.0; python_version > '3.8'",
]

[tool.poetry.dependencies]
python = "^3.10"
django = "^4.2"
numpy = { version = "~1.26", optional = true }
`

	p := &PythonPyProjectParser{}
	deps, err := p.Parse("pyproject.toml", []byte(content))
	require.NoError(t, err)

	versions := map[string]string{}
	for _, d := range deps {
		assert.Equal(t, models.EcosystemPyPI, d.Ecosystem)
		versions[d.Name] = d.Version
	}

	assert.Equal(t, "2.28.0", versions["requests"])
	assert.Equal(t, "2.0", versions["flask"])
	assert.Equal(t, "4.2", versions["django"])
	assert.Equal(t, "1.26", versions["numpy"])
	assert.NotContains(t, versions, "python")
}
