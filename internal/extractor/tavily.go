package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/dreamerai/newscurator/internal/cache"
)

const extractMaxResponseBytes = 8 << 20 // 8MB

type tavilyRequest struct {
	URLs          string `json:"urls"`
	IncludeImages bool   `json:"include_images"`
	ExtractDepth  string `json:"extract_depth"`
}

type tavilyResponse struct {
	Results []struct {
		RawContent string `json:"raw_content"`
		URL        string `json:"url"`
	} `json:"results"`
}

// tryTavily 第一级抽取。缓存里已有本级结果时直接返回，
// 未配置 key 时跳过，正文过短视为失败
func (p *Pipeline) tryTavily(ctx context.Context, rawURL, domain string) (*Result, error) {
	key := cache.Fingerprint("content", rawURL)

	var cached Result
	if p.cache.GetJSON(ctx, key, &cached) && cached.Source == sourceTavily {
		return &cached, nil
	}

	if p.tavilyKey == "" {
		return nil, ErrUnconfigured
	}

	body, err := json.Marshal(tavilyRequest{
		URLs:          rawURL,
		IncludeImages: false,
		ExtractDepth:  "advanced",
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tavilyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.tavilyKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out tavilyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, extractMaxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Results) == 0 {
		return nil, ErrNoResults
	}

	first := out.Results[0]
	if utf8.RuneCountInString(first.RawContent) < minContentLen {
		return nil, ErrShortContent
	}

	title := TitleFromContent(first.RawContent)
	if title == "" {
		title = "Article from " + domain
	}

	resultURL := first.URL
	if resultURL == "" {
		resultURL = rawURL
	}

	res := &Result{
		Title:   title,
		Content: first.RawContent,
		URL:     resultURL,
		Source:  sourceTavily,
	}
	p.cache.Set(ctx, key, res, cache.ContentTTL)
	return res, nil
}
