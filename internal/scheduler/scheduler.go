// Package scheduler 周期性预热文章列表缓存，让用户首次打开页面时命中缓存。
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dreamerai/newscurator/internal/collector"
	"github.com/dreamerai/newscurator/internal/config"
)

const prewarmTimeout = 2 * time.Minute

type Scheduler struct {
	cron    *cron.Cron
	fetcher *collector.Fetcher
	fc      config.FetchConfig
}

func New(spec string, fetcher *collector.Fetcher, fc config.FetchConfig) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:    c,
		fetcher: fetcher,
		fc:      fc,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟首轮预热，避免与启动后的首批用户请求争抢资源
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

// RunOnce 对外暴露的单次执行入口，方便命令行手动预热
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start cache prewarm...")

	ctx, cancel := context.WithTimeout(context.Background(), prewarmTimeout)
	defer cancel()

	articles := s.fetcher.FetchAll(ctx, s.fc)

	counts := make(map[string]int)
	for _, a := range articles {
		counts[a.Source]++
	}
	for source, n := range counts {
		log.Printf("prewarm: %s %d articles", source, n)
	}
	log.Printf("cache prewarm done, %d articles total", len(articles))
}
