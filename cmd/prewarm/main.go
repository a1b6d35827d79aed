package main

import (
	"log"

	"github.com/dreamerai/newscurator/internal/cache"
	"github.com/dreamerai/newscurator/internal/collector"
	"github.com/dreamerai/newscurator/internal/config"
	"github.com/dreamerai/newscurator/internal/scheduler"
)

// 只执行一轮列表抓取并写缓存的命令行入口：适合部署后手动预热
func main() {
	cfg := config.Load()

	c := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if !c.Enabled() {
		log.Println("warn: cache disabled, prewarm results will not persist")
	}

	fetcher := collector.New(cfg, c)
	s, err := scheduler.New(cfg.PrewarmCronSpec, fetcher, config.DefaultFetchConfig())
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	s.RunOnce()
}
