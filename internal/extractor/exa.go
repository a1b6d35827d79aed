package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dreamerai/newscurator/internal/cache"
)

// Exa 允许的最大 livecrawl 超时（毫秒）
const exaLivecrawlTimeout = 10000

type exaContentsRequest struct {
	URLs             []string       `json:"urls"`
	Text             bool           `json:"text"`
	Summary          map[string]any `json:"summary"`
	Livecrawl        string         `json:"livecrawl"`
	LivecrawlTimeout int            `json:"livecrawlTimeout"`
}

type exaContentsResponse struct {
	Results []struct {
		Text    string `json:"text"`
		Summary string `json:"summary"`
		Title   string `json:"title"`
	} `json:"results"`
}

// tryExa 第二级抽取。响应里的纯文本正文转成 HTML 展示块，
// 上游附带的摘要折叠为正文前置段落
func (p *Pipeline) tryExa(ctx context.Context, rawURL, domain string) (*Result, error) {
	key := cache.Fingerprint("content", rawURL)

	var cached Result
	if p.cache.GetJSON(ctx, key, &cached) && cached.Source == sourceExa {
		return &cached, nil
	}

	if p.exaKey == "" {
		return nil, ErrUnconfigured
	}

	body, err := json.Marshal(exaContentsRequest{
		URLs:             []string{rawURL},
		Text:             true,
		Summary:          map[string]any{"enabled": true},
		Livecrawl:        "always",
		LivecrawlTimeout: exaLivecrawlTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.exaURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.exaKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out exaContentsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, extractMaxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Results) == 0 {
		return nil, ErrNoResults
	}

	first := out.Results[0]
	if utf8.RuneCountInString(first.Text) < minContentLen {
		return nil, ErrShortContent
	}

	title := first.Title
	if title == "" {
		title = "Article from " + domain
	}

	res := &Result{
		Title:   title,
		Content: formatExaContent(title, first.Summary, first.Text),
		URL:     rawURL,
		Source:  sourceExa,
	}
	p.cache.Set(ctx, key, res, cache.ContentTTL)
	return res, nil
}

func formatExaContent(title, summary, text string) string {
	processed := strings.ReplaceAll(text, "\n", "<br>")

	summaryHTML := ""
	if summary != "" {
		summaryHTML = fmt.Sprintf("<div class='summary-box'><h3>Summary</h3><p>%s</p></div>", summary)
	}

	return fmt.Sprintf(`<div class="exa-content">
  <h1>%s</h1>
  %s
  <div class="article-content">%s</div>
</div>`, title, summaryHTML, processed)
}
