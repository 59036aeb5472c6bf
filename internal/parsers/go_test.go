package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kevscan/internal/models"
)

const sampleGoMod = `module example.com/app

go 1.22

require (
	github.com/spf13/cobra v1.8.0
	golang.org/x/sys v0.15.0 // indirect
)
`

func TestGoModParser_DirectOnly(t *testing.T) {
	p := &GoModParser{}
	deps, err := p.Parse("go.mod", []byte(sampleGoMod))
	require.NoError(t, err)
	require.Len(t, deps, 1)

	assert.Equal(t, "github.com/spf13/cobra", deps[0].Name)
	assert.Equal(t, "1.8.0", deps[0].Version, "v prefix should be stripped")
	assert.Equal(t, models.EcosystemGo, deps[0].Ecosystem)
	assert.Equal(t, models.TransitivityDirect, deps[0].Transitivity)
	assert.Greater(t, deps[0].Line, 0)
}

func TestGoModParser_IncludeIndirect(t *testing.T) {
	p := &GoModParser{IncludeIndirect: true}
	deps, err := p.Parse("go.mod", []byte(sampleGoMod))
	require.NoError(t, err)
	require.Len(t, deps, 2)

	assert.Equal(t, models.TransitivityDirect, deps[0].Transitivity)
	assert.Equal(t, "golang.org/x/sys", deps[1].Name)
	assert.Equal(t, models.TransitivityTransitive, deps[1].Transitivity)
}

func TestGoModParser_Malformed(t *testing.T) {
	p := &GoModParser{}
	_, err := p.Parse("go.mod", []byte("require {"))
	assert.Error(t, err)
}
