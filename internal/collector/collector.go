// Package collector 按域名并发查询搜索 API，汇总为统一的 Article 列表。
// 单个域名失败只影响自身，不影响同批次的其它域名。
package collector

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dreamerai/newscurator/internal/cache"
	"github.com/dreamerai/newscurator/internal/config"
)

const searchClientTimeout = 20 * time.Second

type Fetcher struct {
	apiKey    string
	searchURL string
	client    *http.Client
	cache     *cache.Cache
}

func New(cfg *config.Config, c *cache.Cache) *Fetcher {
	return &Fetcher{
		apiKey:    cfg.ExaAPIKey,
		searchURL: config.ExaSearchURL,
		client:    &http.Client{Timeout: searchClientTimeout},
		cache:     c,
	}
}

// fetchConfigKey 生成单域名列表缓存的 key。配置以 map 形式参与指纹，
// 字段顺序不影响结果
func fetchConfigKey(domain string, fc config.FetchConfig) string {
	return cache.Fingerprint("articles", domain, map[string]any{
		"domains":             fc.Domains,
		"articles_per_domain": fc.ArticlesPerDomain,
		"lookback_days":       fc.LookbackDays,
	})
}

// FetchDomain 返回单个域名的原始搜索结果，先查缓存再打 API。
// 任何失败都记日志并按空结果处理
func (f *Fetcher) FetchDomain(ctx context.Context, domain string, fc config.FetchConfig) []map[string]any {
	key := fetchConfigKey(domain, fc)

	var cached []map[string]any
	if f.cache.GetJSON(ctx, key, &cached) {
		log.Printf("using cached articles for %s", domain)
		return cached
	}

	results, err := f.searchDomain(ctx, domain, fc)
	if err != nil {
		log.Printf("search %s error: %v", domain, err)
		return nil
	}
	log.Printf("fetched %d articles from %s", len(results), domain)

	if len(results) > 0 {
		f.cache.Set(ctx, key, results, cache.ArticleTTL)
	}
	return results
}

// FetchAll 对配置的全部域名做 fan-out 抓取，按域名配置顺序合并结果。
// 未配置 API key 时直接返回空列表
func (f *Fetcher) FetchAll(ctx context.Context, fc config.FetchConfig) []Article {
	if f.apiKey == "" {
		log.Println("warn: EXA_API_KEY not set, skipping article fetch")
		return nil
	}

	// 结果按下标落位，保证输出顺序与域名配置顺序一致，与完成顺序无关
	perDomain := make([][]map[string]any, len(fc.Domains))
	var wg sync.WaitGroup
	for i, domain := range fc.Domains {
		wg.Add(1)
		go func(i int, domain string) {
			defer wg.Done()
			perDomain[i] = f.FetchDomain(ctx, domain, fc)
		}(i, domain)
	}
	wg.Wait()

	var articles []Article
	for _, results := range perDomain {
		for _, raw := range results {
			articles = append(articles, articleFromRaw(raw))
		}
	}
	return articles
}
