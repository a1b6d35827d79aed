// Package summarizer 调用 Gemini 生成简体中文摘要。摘要始终是尽力而为：
// 未配置凭据直接跳过，任何失败只记日志，不影响外层的抽取请求。
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dreamerai/newscurator/internal/config"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	geminiClientTimeout    = 60 * time.Second
	geminiMaxResponseBytes = 1 << 20 // 1MB

	// 低随机性解码参数，保证摘要稳定可复现
	geminiTemperature     = 0.2
	geminiTopP            = 0.8
	geminiTopK            = 40
	geminiMaxOutputTokens = 2048
)

var (
	ErrNotConfigured = errors.New("gemini api key not configured")
	ErrEmptyResponse = errors.New("empty response from gemini")
)

// 固定的摘要指令模板：先总览后展开，保留关键数据与引语，
// 纯文本段落，结尾带编号的关键点列表，全程简体中文输出
const promptTemplate = `你是一名专业的内容摘要助手。请为下面提供的文章生成摘要，遵循以下要求：

要求：
1. 全文使用简体中文输出。
2. 以 1–2 句话的总览开头，概括文章的核心信息。
3. 随后用 2–3 个段落展开阐述要点。
4. 保留对理解至关重要的数据、统计和引语，不得增改事实。
5. 使用通顺的纯文本段落，不要输出任何标记语法（如 ** 或 *）。
6. 结尾给出"关键点"部分：编号列表（1) ... 2) ...），列出 5–20 条最重要的事实或观点。

输出格式：
标题: （如原文有标题或可推断）
摘要: （符合上述要求的完整摘要）
关键点: （编号列表）

文章内容：
%s`

type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func New(cfg *config.Config) *Gemini {
	return &Gemini{
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: geminiClientTimeout},
	}
}

func (g *Gemini) Available() bool {
	return g.apiKey != ""
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize 剥离正文标记后请求 Gemini 生成摘要。
// 未配置 key 时不发起任何网络调用
func (g *Gemini) Summarize(ctx context.Context, content, title string) (string, error) {
	if !g.Available() {
		return "", ErrNotConfigured
	}

	clean := StripMarkup(content)
	prompt := fmt.Sprintf(promptTemplate, clean)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     geminiTemperature,
			TopP:            geminiTopP,
			TopK:            geminiTopK,
			MaxOutputTokens: geminiMaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, geminiMaxResponseBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}

	log.Printf("generated summary for %q (%d chars)", title, len(text))
	return text, nil
}

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	spaceCollapse = regexp.MustCompile(`\s+`)
)

// StripMarkup 去掉 HTML 标记并压缩连续空白，给模型干净的纯文本
func StripMarkup(content string) string {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		if text := strings.TrimSpace(doc.Text()); text != "" {
			return spaceCollapse.ReplaceAllString(text, " ")
		}
	}
	text := tagPattern.ReplaceAllString(content, " ")
	return strings.TrimSpace(spaceCollapse.ReplaceAllString(text, " "))
}
