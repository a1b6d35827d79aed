package scheduler

import (
	"testing"

	"github.com/dreamerai/newscurator/internal/cache"
	"github.com/dreamerai/newscurator/internal/collector"
	"github.com/dreamerai/newscurator/internal/config"
)

func TestNewRejectsInvalidCronSpec(t *testing.T) {
	fetcher := collector.New(&config.Config{}, cache.New("", ""))

	if _, err := New("not a cron spec", fetcher, config.DefaultFetchConfig()); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
	if _, err := New("0 */6 * * *", fetcher, config.DefaultFetchConfig()); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}

func TestRunOnceWithoutKeyIsHarmless(t *testing.T) {
	fetcher := collector.New(&config.Config{}, cache.New("", ""))
	s, err := New("0 */6 * * *", fetcher, config.DefaultFetchConfig())
	if err != nil {
		t.Fatalf("init scheduler: %v", err)
	}

	// 未配置 key 时预热应直接返回，不 panic
	s.RunOnce()
}
