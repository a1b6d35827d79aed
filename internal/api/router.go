package api

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dreamerai/newscurator/internal/collector"
	"github.com/dreamerai/newscurator/internal/config"
	"github.com/dreamerai/newscurator/internal/extractor"
)

type Server struct {
	fetcher  *collector.Fetcher
	pipeline *extractor.Pipeline
	cfg      *config.Config
}

func NewServer(fetcher *collector.Fetcher, pipeline *extractor.Pipeline, cfg *config.Config) *Server {
	return &Server{fetcher: fetcher, pipeline: pipeline, cfg: cfg}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/", s.index)
	r.GET("/article", s.article)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/articles", s.listArticles)
		v1.GET("/extract", s.extract)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// fetchConfigFromQuery 允许单次请求覆盖域名集合、单域名条数与回看天数
func (s *Server) fetchConfigFromQuery(c *gin.Context) config.FetchConfig {
	fc := config.DefaultFetchConfig()

	if domains := c.Query("domains"); domains != "" {
		var list []string
		for _, d := range strings.Split(domains, ",") {
			if d = strings.TrimSpace(d); d != "" {
				list = append(list, d)
			}
		}
		if len(list) > 0 {
			fc.Domains = list
		}
	}
	fc.ArticlesPerDomain = config.ParseIntDefault(c.Query("articles_per_domain"), fc.ArticlesPerDomain)
	fc.LookbackDays = config.ParseIntDefault(c.Query("lookback_days"), fc.LookbackDays)
	return fc
}

// SourceGroup 首页按来源分组展示，保持文章出现顺序
type SourceGroup struct {
	Source   string
	Articles []collector.Article
}

func groupBySource(articles []collector.Article) []SourceGroup {
	index := make(map[string]int)
	var groups []SourceGroup
	for _, a := range articles {
		i, ok := index[a.Source]
		if !ok {
			i = len(groups)
			index[a.Source] = i
			groups = append(groups, SourceGroup{Source: a.Source})
		}
		groups[i].Articles = append(groups[i].Articles, a)
	}
	return groups
}

func (s *Server) index(c *gin.Context) {
	fc := s.fetchConfigFromQuery(c)
	articles := s.fetcher.FetchAll(c.Request.Context(), fc)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"groups":     groupBySource(articles),
		"domainsStr": strings.Join(fc.Domains, ","),
		"year":       time.Now().Format("2006"),
	})
}

func (s *Server) article(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.String(http.StatusBadRequest, "missing url parameter")
		return
	}

	res := s.pipeline.Extract(c.Request.Context(), rawURL)
	c.HTML(http.StatusOK, "article.html", gin.H{
		"title":   res.Title,
		"url":     res.URL,
		"source":  res.Source,
		"content": template.HTML(res.Content),
		"summary": res.ChineseSummary,
		"year":    time.Now().Format("2006"),
	})
}

func (s *Server) listArticles(c *gin.Context) {
	fc := s.fetchConfigFromQuery(c)
	articles := s.fetcher.FetchAll(c.Request.Context(), fc)

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    articles,
	})
}

func (s *Server) extract(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "bad_request",
			"message": "missing url parameter",
		})
		return
	}

	res := s.pipeline.Extract(c.Request.Context(), rawURL)
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    res,
	})
}
