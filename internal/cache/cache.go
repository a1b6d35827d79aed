// Package cache 提供基于 Redis 的 cache-aside 层，用于减少对外部搜索 / 抽取 /
// 摘要 API 的调用次数。未配置 Redis 时自动退化为"永远未命中"，调用方无需感知。
package cache

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// 各命名空间的过期时间：文章列表与正文变化较快，摘要基本不变
const (
	ArticleTTL = 24 * time.Hour
	ContentTTL = 24 * time.Hour
	SummaryTTL = 7 * 24 * time.Hour
)

// 超过该长度的字符串参数以内容哈希代替，避免把整段正文带进 key 空间
const largeArgThreshold = 1000

// store 抽象底层键值后端，便于测试替换
type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

var errNotFound = fmt.Errorf("cache: not found")

type redisStore struct {
	rdb *redis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", errNotFound
	}
	return v, err
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

type Cache struct {
	backend store
}

// New 连接 Redis；addr 为空时返回禁用状态的 Cache（所有读未命中、所有写为空操作）
func New(addr, password string) *Cache {
	if addr == "" {
		return &Cache{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Cache{backend: &redisStore{rdb: rdb}}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.backend != nil
}

// Get 返回原始字符串值；未启用、未命中或后端出错均视为未命中
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	v, err := c.backend.Get(ctx, key)
	if err == errNotFound {
		log.Printf("cache miss: %s", key)
		return "", false
	}
	if err != nil {
		log.Printf("cache get %s error: %v", key, err)
		return "", false
	}
	log.Printf("cache hit: %s", key)
	return v, true
}

// GetJSON 读取并反序列化复合值到 dest；解码失败按未命中处理
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	v, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(v), dest); err != nil {
		log.Printf("cache decode %s error: %v", key, err)
		return false
	}
	return true
}

// Set 写入值；复合类型先 JSON 序列化。后端出错只记日志，不向上传播
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if !c.Enabled() {
		return false
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			log.Printf("cache encode %s error: %v", key, err)
			return false
		}
		s = string(b)
	}

	if err := c.backend.Set(ctx, key, s, ttl); err != nil {
		log.Printf("cache set %s error: %v", key, err)
		return false
	}
	log.Printf("cached %s ttl=%s", key, ttl)
	return true
}

// Fingerprint 由命名空间前缀和调用参数生成确定性的缓存 key。
// map 参数经 JSON 序列化（Go 按 key 排序，字段顺序不影响结果）；
// 超长字符串先做 sha256，最终整体取 md5 并保留前缀便于观察。
func Fingerprint(prefix string, args ...any) string {
	parts := []string{prefix}
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			if len(v) > largeArgThreshold {
				sum := sha256.Sum256([]byte(v))
				parts = append(parts, hex.EncodeToString(sum[:]))
			} else {
				parts = append(parts, v)
			}
		default:
			b, err := json.Marshal(v)
			if err != nil {
				parts = append(parts, fmt.Sprintf("%v", v))
				continue
			}
			parts = append(parts, string(b))
		}
	}

	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
