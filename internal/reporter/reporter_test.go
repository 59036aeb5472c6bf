package reporter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kevscan/internal/models"
)

func sampleFindings() []models.Finding {
	added, _ := time.Parse("2006-01-02", "2021-12-10")
	due, _ := time.Parse("2006-01-02", "2021-12-24")

	return []models.Finding{
		{
			Dependency: models.Dependency{
				Name:         "log4j-api",
				Version:      "2.14.0",
				Ecosystem:    models.EcosystemMaven,
				Transitivity: models.TransitivityTransitive,
				SourceFile:   "maven_dep_tree.txt",
				Line:         3,
			},
			KEVs: []models.KEVInfo{{
				CVEID:             "CVE-2021-44228",
				VendorProject:     "Apache",
				Product:           "Log4j2",
				VulnerabilityName: "Apache Log4j2 Remote Code Execution Vulnerability",
				DateAdded:         added,
				DueDate:           due,
				RansomwareUse:     true,
				EPSSScore:         0.97,
			}},
		},
	}
}

func TestGet(t *testing.T) {
	assert.IsType(t, &JSONReporter{}, Get("json"))
	assert.IsType(t, &SARIFReporter{}, Get("sarif"))
	assert.IsType(t, &TerminalReporter{}, Get("terminal"))
	assert.IsType(t, &TerminalReporter{}, Get(""))
}

func TestTerminalReporter_NoFindings(t *testing.T) {
	out, err := (&TerminalReporter{}).Report(nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No KEV vulnerabilities found")
}

func TestTerminalReporter_Findings(t *testing.T) {
	out, err := (&TerminalReporter{}).Report(sampleFindings())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "log4j-api@2.14.0")
	assert.Contains(t, s, "(transitive)")
	assert.Contains(t, s, "maven_dep_tree.txt:3")
	assert.Contains(t, s, "CVE-2021-44228")
	assert.Contains(t, s, "ransomware")
}

func TestJSONReporter(t *testing.T) {
	out, err := (&JSONReporter{}).Report(sampleFindings())
	require.NoError(t, err)

	var parsed struct {
		Summary struct {
			TotalKEVs         int `json:"total_kevs"`
			RansomwareRelated int `json:"ransomware_related"`
		} `json:"summary"`
		Findings []struct {
			Package struct {
				Name         string `json:"name"`
				Ecosystem    string `json:"ecosystem"`
				Transitivity string `json:"transitivity"`
			} `json:"package"`
			Line int `json:"line"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(out, &parsed))

	assert.Equal(t, 1, parsed.Summary.TotalKEVs)
	assert.Equal(t, 1, parsed.Summary.RansomwareRelated)
	require.Len(t, parsed.Findings, 1)
	assert.Equal(t, "log4j-api", parsed.Findings[0].Package.Name)
	assert.Equal(t, "Maven", parsed.Findings[0].Package.Ecosystem)
	assert.Equal(t, "transitive", parsed.Findings[0].Package.Transitivity)
	assert.Equal(t, 3, parsed.Findings[0].Line)
}

func TestSARIFReporter(t *testing.T) {
	out, err := (&SARIFReporter{}).Report(sampleFindings())
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(out, &report))

	assert.Equal(t, "2.1.0", report.Version)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, "kevscan", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, "CVE-2021-44228", run.Tool.Driver.Rules[0].ID)
	assert.Contains(t, run.Tool.Driver.Rules[0].Properties.Tags, "ransomware")

	require.Len(t, run.Results, 1)
	result := run.Results[0]
	assert.Equal(t, "error", result.Level)
	assert.True(t, strings.Contains(result.Message.Text, "transitive dependency"))
	assert.Equal(t, 3, result.Locations[0].PhysicalLocation.Region.StartLine)
}
