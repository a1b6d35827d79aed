package collector

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// 缺省值沿用页面展示用的中文哨兵
const (
	DefaultTitle       = "未命名"
	UnknownDate        = "未知"
	UnknownDateDisplay = "未知日期"
	UnknownSource      = "未知来源"
)

// Article 一条搜索到的新闻条目。Source 与 FormattedDate 在构造时派生，之后不再变化
type Article struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Source        string `json:"source"`
	FormattedDate string `json:"formatted_date"`
}

var sourceNames = map[string]string{
	"techcrunch.com":     "TechCrunch",
	"36kr.com":           "36Kr",
	"m.36kr.com":         "36Kr",
	"news.qq.com":        "腾讯新闻",
	"163.com":            "网易新闻",
	"theinformation.com": "The Information",
	"yahoo.com":          "Yahoo",
	"bloomberg.com":      "Bloomberg",
	"reuters.com":        "Reuters",
	"cnbc.com":           "CNBC",
	"wsj.com":            "Wall Street Journal",
	"nytimes.com":        "New York Times",
	"ft.com":             "Financial Times",
	"ftchinese.com":      "Financial Times (Chinese)",
}

// 东八区，用于日期展示
var locEast8 *time.Location

func init() {
	locEast8, _ = time.LoadLocation("Asia/Shanghai")
	if locEast8 == nil {
		locEast8 = time.FixedZone("CST", 8*3600)
	}
}

// NewArticle 构造 Article 并派生来源与展示日期；任何输入都不会失败
func NewArticle(title, rawURL, publishedDate string) Article {
	if title == "" {
		title = DefaultTitle
	}
	if publishedDate == "" {
		publishedDate = UnknownDate
	}
	return Article{
		Title:         title,
		URL:           rawURL,
		PublishedDate: publishedDate,
		Source:        SourceFromURL(rawURL),
		FormattedDate: FormatDate(publishedDate),
	}
}

// articleFromRaw 把搜索 API 返回的原始条目转为 Article。
// 字段缺失或类型不符时降级为缺省值，而不是丢弃整条记录
func articleFromRaw(raw map[string]any) Article {
	u, _ := raw["url"].(string)
	if u == "" {
		log.Printf("warn: article missing url, keeping placeholder record")
		u = "#"
	}
	title, _ := raw["title"].(string)
	published, _ := raw["publishedDate"].(string)
	return NewArticle(title, u, published)
}

// SourceFromURL 提取去掉 www. 的域名并映射为展示名；未知域名原样返回
func SourceFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return UnknownSource
	}
	domain := strings.TrimPrefix(parsed.Host, "www.")
	if name, ok := sourceNames[domain]; ok {
		return name
	}
	return domain
}

// FormatDate 把上游任意格式的发布时间渲染为东八区 YYYY-MM-DD；
// 无时区的时间按 UTC 处理，解析失败一律回退未知日期
func FormatDate(raw string) string {
	if raw == "" || raw == UnknownDate {
		return UnknownDateDisplay
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		log.Printf("warn: date %q parse error: %v", raw, err)
		return UnknownDateDisplay
	}
	return t.In(locEast8).Format("2006-01-02")
}
