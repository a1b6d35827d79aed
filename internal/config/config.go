package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// 各外部 API 的默认入口；测试中由组件内部字段替换为 httptest 地址
const (
	ExaSearchURL     = "https://api.exa.ai/search"
	ExaContentsURL   = "https://api.exa.ai/contents"
	TavilyExtractURL = "https://api.tavily.com/extract"
)

// QueryTerms 检索科技新闻时固定使用的关键词
var QueryTerms = []string{"人工智能", "artificial intelligence", "ai"}

type Config struct {
	AppPort string

	ExaAPIKey    string
	TavilyAPIKey string

	GeminiAPIKey string
	GeminiModel  string

	RedisAddr     string
	RedisPassword string

	PrewarmCronSpec string
	WebRoot         string
}

// FetchConfig 描述一次文章列表抓取的范围，可按请求覆盖
type FetchConfig struct {
	Domains           []string
	ArticlesPerDomain int
	LookbackDays      int
}

func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Domains:           []string{"techcrunch.com", "36kr.com", "news.qq.com"},
		ArticlesPerDomain: 9,
		LookbackDays:      3,
	}
}

func Load() *Config {
	// .env 不存在时静默忽略，线上环境直接用进程环境变量
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "8081"),
		ExaAPIKey:       getEnv("EXA_API_KEY", ""),
		TavilyAPIKey:    getEnv("TAVILY_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PrewarmCronSpec: getEnv("PREWARM_CRON_SPEC", "0 */6 * * *"),
		WebRoot:         getEnv("WEB_ROOT", "web"),
	}

	if cfg.ExaAPIKey == "" {
		log.Println("warn: EXA_API_KEY not set, article search will return empty results")
	}
	if cfg.RedisAddr == "" {
		log.Println("warn: REDIS_ADDR not set, caching disabled")
	}

	log.Printf("config loaded: port=%s model=%s prewarm=%q", cfg.AppPort, cfg.GeminiModel, cfg.PrewarmCronSpec)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseIntDefault 解析查询参数里的整数，非法或非正数时回退默认值
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
