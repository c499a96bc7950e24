package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/pkg/errors"
)

const osvBatchURL = "https://api.osv.dev/v1/querybatch"

// OSVClient handles requests to the OSV vulnerability database
type OSVClient struct {
	httpClient *http.Client
	url        string
}

// NewOSVClient creates a new OSV client
func NewOSVClient() *OSVClient {
	return &OSVClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		url:        osvBatchURL,
	}
}

type osvPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type osvQuery struct {
	Package osvPackage `json:"package"`
	Version string     `json:"version,omitempty"`
}

type osvBatchRequest struct {
	Queries []osvQuery `json:"queries"`
}

type osvVulnerability struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type osvBatchResponse struct {
	Results []struct {
		Vulns []osvVulnerability `json:"vulns"`
	} `json:"results"`
}

// QueryBatch queries OSV for advisories affecting the given package identifiers.
// Returns a map of identifier -> advisories; identifiers without advisories are absent.
func (c *OSVClient) QueryBatch(ctx context.Context, eco models.Ecosystem, pkgs []string) (map[string][]models.Advisory, error) {
	results := make(map[string][]models.Advisory)

	if len(pkgs) == 0 {
		return results, nil
	}

	// OSV batch API allows up to 1000 queries, but we'll use 100 for safety
	const batchSize = 100
	for i := 0; i < len(pkgs); i += batchSize {
		end := i + batchSize
		if end > len(pkgs) {
			end = len(pkgs)
		}
		chunk := pkgs[i:end]

		chunkResults, err := c.queryChunk(ctx, eco, chunk)
		if err != nil {
			return nil, errors.Wrap(err, "failed to query OSV batch")
		}

		for j, advisories := range chunkResults {
			if len(advisories) > 0 {
				results[chunk[j]] = append(results[chunk[j]], advisories...)
			}
		}
	}

	return results, nil
}

func (c *OSVClient) queryChunk(ctx context.Context, eco models.Ecosystem, pkgs []string) (map[int][]models.Advisory, error) {
	req := osvBatchRequest{Queries: make([]osvQuery, len(pkgs))}
	for j, pkg := range pkgs {
		name, version := models.SplitIdentifier(eco, pkg)
		req.Queries[j].Package.Name = name
		req.Queries[j].Package.Ecosystem = string(eco)
		req.Queries[j].Version = version
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("OSV API returned status %d", resp.StatusCode)
	}

	var batchResp osvBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		return nil, errors.Wrap(err, "decoding OSV response")
	}

	results := make(map[int][]models.Advisory)
	for j, result := range batchResp.Results {
		if j >= len(pkgs) {
			break
		}
		for _, vuln := range result.Vulns {
			results[j] = append(results[j], models.Advisory{
				ID:      vuln.ID,
				Summary: vuln.Summary,
			})
		}
	}

	return results, nil
}
