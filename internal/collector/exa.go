package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dreamerai/newscurator/internal/config"
)

const searchMaxResponseBytes = 4 << 20 // 4MB

type searchRequest struct {
	Query              string   `json:"query"`
	NumResults         int      `json:"numResults"`
	StartPublishedDate string   `json:"startPublishedDate"`
	EndPublishedDate   string   `json:"endPublishedDate"`
	IncludeDomains     []string `json:"includeDomains"`
}

type searchResponse struct {
	Results []map[string]any `json:"results"`
}

// searchDomain 调用 Exa /search，时间窗取 [now - lookback, now]，只命中指定域名
func (f *Fetcher) searchDomain(ctx context.Context, domain string, fc config.FetchConfig) ([]map[string]any, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -fc.LookbackDays)

	payload := searchRequest{
		Query:              strings.Join(config.QueryTerms, " "),
		NumResults:         fc.ArticlesPerDomain,
		StartPublishedDate: start.Format(time.RFC3339),
		EndPublishedDate:   now.Format(time.RFC3339),
		IncludeDomains:     []string{domain},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("exa search: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("exa search: build request: %w", err)
	}
	req.Header.Set("x-api-key", f.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa search: unexpected status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, searchMaxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("exa search: decode response: %w", err)
	}
	return out.Results, nil
}
