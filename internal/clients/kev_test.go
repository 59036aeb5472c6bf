package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKEVData(t *testing.T) {
	data := `{
  "title": "CISA Catalog of Known Exploited Vulnerabilities",
  "catalogVersion": "2024.01.01",
  "count": 2,
  "vulnerabilities": [
    {
      "cveID": "CVE-2021-44228",
      "vendorProject": "Apache",
      "product": "Log4j2",
      "vulnerabilityName": "Apache Log4j2 Remote Code Execution Vulnerability",
      "dateAdded": "2021-12-10",
      "dueDate": "2021-12-24",
      "knownRansomwareCampaignUse": "Known",
      "cwes": ["CWE-917"]
    },
    {
      "cveID": "CVE-2023-0001",
      "vendorProject": "Example",
      "product": "Widget",
      "vulnerabilityName": "Example Vulnerability",
      "dateAdded": "2023-01-15",
      "dueDate": "2023-02-05",
      "knownRansomwareCampaignUse": "Unknown"
    }
  ]
}`

	catalog, err := parseKEVData([]byte(data))
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	log4j := catalog["CVE-2021-44228"]
	assert.Equal(t, "Apache", log4j.VendorProject)
	assert.True(t, log4j.RansomwareUse)
	assert.Equal(t, 2021, log4j.DateAdded.Year())
	assert.Equal(t, []string{"CWE-917"}, log4j.CWEs)

	assert.False(t, catalog["CVE-2023-0001"].RansomwareUse)
}

func TestParseKEVData_Malformed(t *testing.T) {
	_, err := parseKEVData([]byte("not json"))
	assert.Error(t, err)
}

func TestExtractCVEIDs(t *testing.T) {
	cves := extractCVEIDs("GHSA-jfh8-c2jp-5v3q", []string{"CVE-2021-44228", "CVE-2021-44228", "OSV-2021-1"})
	assert.Equal(t, []string{"CVE-2021-44228"}, cves)

	cves = extractCVEIDs("CVE-2023-0001", nil)
	assert.Equal(t, []string{"CVE-2023-0001"}, cves)
}
