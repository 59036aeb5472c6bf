package clients

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kevscan/internal/models"
)

const epssURL = "https://api.first.org/data/v1/epss"

// EPSSClient handles requests to the EPSS API
type EPSSClient struct {
	httpClient *http.Client
}

// NewEPSSClient creates a new EPSS client
func NewEPSSClient() *EPSSClient {
	return &EPSSClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// EPSSResponse represents the response from the EPSS API
type EPSSResponse struct {
	Status     string     `json:"status"`
	StatusCode int        `json:"status-code"`
	Version    string     `json:"version"`
	Total      int        `json:"total"`
	Data       []EPSSData `json:"data"`
}

// EPSSData represents a single EPSS score entry
type EPSSData struct {
	CVE        string `json:"cve"`
	EPSS       string `json:"epss"`
	Percentile string `json:"percentile"`
	Date       string `json:"date"`
}

// FetchScores fetches EPSS scores for the given CVE IDs.
// Returns a map of CVE ID -> EPSSScore. EPSS is enrichment only, so chunks
// that fail are skipped rather than failing the scan.
func (c *EPSSClient) FetchScores(cveIDs []string) (map[string]models.EPSSScore, error) {
	scores := make(map[string]models.EPSSScore)

	if len(cveIDs) == 0 {
		return scores, nil
	}

	// Chunk to avoid URL length issues
	const chunkSize = 100
	for i := 0; i < len(cveIDs); i += chunkSize {
		end := min(i+chunkSize, len(cveIDs))
		c.fetchChunk(cveIDs[i:end], scores)
	}

	return scores, nil
}

func (c *EPSSClient) fetchChunk(cveIDs []string, scores map[string]models.EPSSScore) {
	url := fmt.Sprintf("%s?cve=%s", epssURL, strings.Join(cveIDs, ","))
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var epssResp EPSSResponse
	if err := json.NewDecoder(resp.Body).Decode(&epssResp); err != nil {
		return
	}

	for _, data := range epssResp.Data {
		score, _ := strconv.ParseFloat(data.EPSS, 64)
		percentile, _ := strconv.ParseFloat(data.Percentile, 64)
		scores[data.CVE] = models.EPSSScore{
			Score:      score,
			Percentile: percentile,
		}
	}
}
