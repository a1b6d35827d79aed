package main

import (
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/dreamerai/newscurator/internal/api"
	"github.com/dreamerai/newscurator/internal/cache"
	"github.com/dreamerai/newscurator/internal/collector"
	"github.com/dreamerai/newscurator/internal/config"
	"github.com/dreamerai/newscurator/internal/extractor"
	"github.com/dreamerai/newscurator/internal/scheduler"
	"github.com/dreamerai/newscurator/internal/summarizer"
)

func main() {
	cfg := config.Load()

	c := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	fetcher := collector.New(cfg, c)
	gemini := summarizer.New(cfg)
	pipeline := extractor.New(cfg, c, gemini)

	s, err := scheduler.New(cfg.PrewarmCronSpec, fetcher, config.DefaultFetchConfig())
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	r := gin.Default()
	r.LoadHTMLGlob(filepath.Join(cfg.WebRoot, "templates", "*.html"))
	r.Static("/static", filepath.Join(cfg.WebRoot, "static"))

	apiServer := api.NewServer(fetcher, pipeline, cfg)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
