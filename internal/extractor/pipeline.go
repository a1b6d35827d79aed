// Package extractor 按固定优先级链抽取单篇文章正文：
// Tavily → Exa → 合成兜底内容。每一级独立做缓存检查与回写，
// 前一级确认不可用后才尝试下一级。
package extractor

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dreamerai/newscurator/internal/cache"
	"github.com/dreamerai/newscurator/internal/config"
)

const (
	sourceTavily   = "tavily"
	sourceExa      = "exa"
	sourceFallback = "fallback"

	// 正文短于该长度视为抽取失败
	minContentLen = 100

	extractClientTimeout = 30 * time.Second
)

// 各级的典型失败原因，区别于"成功但内容为空"
var (
	ErrUnconfigured = errors.New("api key not configured")
	ErrNoResults    = errors.New("no results in response")
	ErrShortContent = errors.New("content missing or too short")
)

// Result 一次抽取的产出；Source 标记产出层级
type Result struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	URL            string `json:"url"`
	Source         string `json:"source"`
	IsFallback     bool   `json:"is_fallback,omitempty"`
	ChineseSummary string `json:"chinese_summary,omitempty"`
}

// Usable 兜底内容不算可用结果
func (r *Result) Usable() bool {
	return r != nil && !r.IsFallback
}

// Summarizer 生成式摘要服务；未配置凭据时 Available 返回 false
type Summarizer interface {
	Available() bool
	Summarize(ctx context.Context, content, title string) (string, error)
}

type Pipeline struct {
	tavilyKey string
	tavilyURL string
	exaKey    string
	exaURL    string

	client     *http.Client
	cache      *cache.Cache
	summarizer Summarizer
}

func New(cfg *config.Config, c *cache.Cache, s Summarizer) *Pipeline {
	return &Pipeline{
		tavilyKey:  cfg.TavilyAPIKey,
		tavilyURL:  config.TavilyExtractURL,
		exaKey:     cfg.ExaAPIKey,
		exaURL:     config.ExaContentsURL,
		client:     &http.Client{Timeout: extractClientTimeout},
		cache:      c,
		summarizer: s,
	}
}

// Extract 依次尝试 Tavily → Exa，均失败则返回合成兜底内容。
// 可用结果尽力附带中文摘要；兜底内容不做摘要
func (p *Pipeline) Extract(ctx context.Context, rawURL string) *Result {
	domain := domainOf(rawURL)

	if res, err := p.tryTavily(ctx, rawURL, domain); err != nil {
		log.Printf("tavily: %s: %v", rawURL, err)
	} else if res.Usable() {
		p.attachSummary(ctx, res)
		return res
	}

	if res, err := p.tryExa(ctx, rawURL, domain); err != nil {
		log.Printf("exa contents: %s: %v", rawURL, err)
	} else if res.Usable() {
		p.attachSummary(ctx, res)
		return res
	}

	log.Printf("all extraction tiers failed for %s, serving fallback", rawURL)
	return fallbackResult(rawURL, domain)
}

// attachSummary 尽力生成摘要，任何失败都不影响抽取结果本身
func (p *Pipeline) attachSummary(ctx context.Context, res *Result) {
	if p.summarizer == nil || !p.summarizer.Available() {
		return
	}

	key := cache.Fingerprint("summary", res.Content, res.Title)
	if s, ok := p.cache.Get(ctx, key); ok {
		res.ChineseSummary = s
		return
	}

	s, err := p.summarizer.Summarize(ctx, res.Content, res.Title)
	if err != nil {
		log.Printf("summarize %s error: %v", res.URL, err)
		return
	}
	res.ChineseSummary = s
	p.cache.Set(ctx, key, s, cache.SummaryTTL)
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
