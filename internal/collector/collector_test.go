package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dreamerai/newscurator/internal/cache"
	"github.com/dreamerai/newscurator/internal/config"
)

func testFetchConfig(domains ...string) config.FetchConfig {
	return config.FetchConfig{
		Domains:           domains,
		ArticlesPerDomain: 3,
		LookbackDays:      3,
	}
}

// fakeSearchServer 按 includeDomains 返回固定结果，badDomains 里的域名返回 500
func fakeSearchServer(t *testing.T, perDomain map[string][]map[string]any, badDomains map[string]bool, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode search request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if len(req.IncludeDomains) != 1 {
			t.Errorf("includeDomains = %v, want exactly one domain", req.IncludeDomains)
		}
		domain := req.IncludeDomains[0]
		if badDomains[domain] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{Results: perDomain[domain]})
	}))
}

func newTestFetcher(url string, c *cache.Cache) *Fetcher {
	return &Fetcher{
		apiKey:    "test-key",
		searchURL: url,
		client:    &http.Client{Timeout: 5 * time.Second},
		cache:     c,
	}
}

func TestFetchAllMergesInDomainOrder(t *testing.T) {
	perDomain := map[string][]map[string]any{
		"techcrunch.com": {
			{"title": "TC one", "url": "https://techcrunch.com/1", "publishedDate": "2024-03-01T10:00:00Z"},
			{"title": "TC two", "url": "https://techcrunch.com/2", "publishedDate": "2024-03-02T10:00:00Z"},
		},
		"36kr.com": {
			{"title": "36kr one", "url": "https://36kr.com/p/1", "publishedDate": "2024-03-01T10:00:00Z"},
		},
	}
	srv := fakeSearchServer(t, perDomain, nil, nil)
	defer srv.Close()

	f := newTestFetcher(srv.URL, cache.New("", ""))
	articles := f.FetchAll(context.Background(), testFetchConfig("techcrunch.com", "36kr.com"))

	if len(articles) != 3 {
		t.Fatalf("FetchAll returned %d articles, want 3", len(articles))
	}
	// 合并顺序跟随域名配置顺序，而不是完成顺序
	if articles[0].Source != "TechCrunch" || articles[2].Source != "36Kr" {
		t.Fatalf("merge order wrong: %+v", articles)
	}
}

func TestFetchAllIsolatesDomainFailure(t *testing.T) {
	perDomain := map[string][]map[string]any{
		"techcrunch.com": {
			{"title": "TC one", "url": "https://techcrunch.com/1"},
		},
	}
	srv := fakeSearchServer(t, perDomain, map[string]bool{"36kr.com": true}, nil)
	defer srv.Close()

	f := newTestFetcher(srv.URL, cache.New("", ""))
	articles := f.FetchAll(context.Background(), testFetchConfig("36kr.com", "techcrunch.com"))

	if len(articles) != 1 {
		t.Fatalf("failed domain should contribute zero articles, got %d total", len(articles))
	}
	if articles[0].Source != "TechCrunch" {
		t.Fatalf("surviving article from wrong domain: %+v", articles[0])
	}
}

func TestFetchAllWithoutKeyReturnsEmpty(t *testing.T) {
	f := &Fetcher{apiKey: "", searchURL: "http://127.0.0.1:0", client: &http.Client{}, cache: cache.New("", "")}
	if got := f.FetchAll(context.Background(), testFetchConfig("techcrunch.com")); len(got) != 0 {
		t.Fatalf("FetchAll without api key should be empty, got %d", len(got))
	}
}

func TestFetchDomainCacheAside(t *testing.T) {
	perDomain := map[string][]map[string]any{
		"techcrunch.com": {
			{"title": "TC one", "url": "https://techcrunch.com/1"},
		},
	}
	var calls atomic.Int64
	srv := fakeSearchServer(t, perDomain, nil, &calls)
	defer srv.Close()

	f := newTestFetcher(srv.URL, cache.NewMemory())
	fc := testFetchConfig("techcrunch.com")
	ctx := context.Background()

	first := f.FetchDomain(ctx, "techcrunch.com", fc)
	second := f.FetchDomain(ctx, "techcrunch.com", fc)

	if calls.Load() != 1 {
		t.Fatalf("second fetch should hit cache, upstream calls = %d", calls.Load())
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("results differ across cache hit: %d vs %d", len(first), len(second))
	}
	if second[0]["url"] != "https://techcrunch.com/1" {
		t.Fatalf("cached result mismatch: %+v", second[0])
	}
}

func TestFetchDomainDifferentConfigDifferentKey(t *testing.T) {
	perDomain := map[string][]map[string]any{
		"techcrunch.com": {
			{"title": "TC one", "url": "https://techcrunch.com/1"},
		},
	}
	var calls atomic.Int64
	srv := fakeSearchServer(t, perDomain, nil, &calls)
	defer srv.Close()

	f := newTestFetcher(srv.URL, cache.NewMemory())
	ctx := context.Background()

	fc1 := testFetchConfig("techcrunch.com")
	fc2 := testFetchConfig("techcrunch.com")
	fc2.LookbackDays = 7

	f.FetchDomain(ctx, "techcrunch.com", fc1)
	f.FetchDomain(ctx, "techcrunch.com", fc2)

	if calls.Load() != 2 {
		t.Fatalf("different configs must not share cache entries, upstream calls = %d", calls.Load())
	}
}

func TestFetchAllBoundedByPerDomainLimit(t *testing.T) {
	perDomain := map[string][]map[string]any{
		"techcrunch.com": {
			{"url": "https://techcrunch.com/1"},
			{"url": "https://techcrunch.com/2"},
			{"url": "https://techcrunch.com/3"},
		},
		"36kr.com": {
			{"url": "https://36kr.com/p/1"},
		},
	}
	srv := fakeSearchServer(t, perDomain, nil, nil)
	defer srv.Close()

	fc := testFetchConfig("techcrunch.com", "36kr.com")
	f := newTestFetcher(srv.URL, cache.New("", ""))
	articles := f.FetchAll(context.Background(), fc)

	if max := fc.ArticlesPerDomain * len(fc.Domains); len(articles) > max {
		t.Fatalf("FetchAll returned %d articles, exceeds bound %d", len(articles), max)
	}
}
