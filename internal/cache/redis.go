package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/devblog-next/internal/config"

	"github.com/redis/go-redis/v9"
)

// Store Redis 连接封装，未启用时所有操作均为空操作
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore 根据配置创建 Redis 缓存
func NewStore(cfg *config.RedisConfig) *Store {
	prefix := "devblog"
	if cfg != nil && strings.TrimSpace(cfg.Prefix) != "" {
		prefix = strings.TrimSpace(cfg.Prefix)
	}
	if cfg == nil || !cfg.Enabled {
		return &Store{prefix: prefix}
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Store{client: client, prefix: prefix}
}

// Enabled 判断缓存是否启用
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Client 获取 Redis 客户端
func (s *Store) Client() *redis.Client {
	if !s.Enabled() {
		return nil
	}
	return s.client
}

// Ping 检查连接
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close 关闭客户端
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

// Key 拼接带前缀的缓存 key
func (s *Store) Key(key string) string {
	prefix := "devblog"
	if s != nil && s.prefix != "" {
		prefix = s.prefix
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return prefix
	}
	return fmt.Sprintf("%s:%s", prefix, trimmed)
}
