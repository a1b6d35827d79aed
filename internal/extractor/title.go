package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	titleScanWindow = 500
	titleMaxLen     = 50
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	sentenceSplit = regexp.MustCompile(`[.!?]\s`)
	spaceCollapse = regexp.MustCompile(`\s+`)
)

// TitleFromContent 在抽取 API 未返回标题时从正文恢复一个标题：
// 先找第一个 h1，否则退化为开头第一句。找不到合适的返回空串
func TitleFromContent(content string) string {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
			return collapseSpaces(h1)
		}
	}

	head := content
	if rs := []rune(head); len(rs) > titleScanWindow {
		head = string(rs[:titleScanWindow])
	}

	sentences := sentenceSplit.Split(head, -1)
	if len(sentences) == 0 {
		return ""
	}

	first := strings.TrimSpace(tagPattern.ReplaceAllString(sentences[0], ""))
	first = collapseSpaces(first)
	if len([]rune(first)) <= 10 {
		return ""
	}
	if rs := []rune(first); len(rs) > titleMaxLen {
		first = string(rs[:titleMaxLen]) + "..."
	}
	return first
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceCollapse.ReplaceAllString(s, " "))
}
