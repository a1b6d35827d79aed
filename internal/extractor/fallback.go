package extractor

import "fmt"

// fallbackResult 合成一段指向原文的说明性内容。纯函数，不做 I/O，也从不写缓存，
// 避免遮蔽之后某次成功的真实抽取
func fallbackResult(rawURL, domain string) *Result {
	content := fmt.Sprintf(`<div class="fallback-content">
  <h2>Content Preview Unavailable</h2>
  <p>We're unable to extract the full content from this article at <strong>%s</strong>.</p>
  <p>This could be due to:</p>
  <ul>
    <li>The website has content protection measures</li>
    <li>The content requires a login or subscription</li>
    <li>The page uses complex dynamic content loading</li>
    <li>Regional access restrictions</li>
  </ul>
  <p>To read the full article, please visit the original source:</p>
  <p><a href="%s" target="_blank" class="btn btn-primary">Visit Original Article</a></p>
</div>`, domain, rawURL)

	return &Result{
		Title:      "Article from " + domain,
		Content:    content,
		URL:        rawURL,
		Source:     sourceFallback,
		IsFallback: true,
	}
}
