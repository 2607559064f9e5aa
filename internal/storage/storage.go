package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/redis/go-redis/v9"
)

const (
	// sentTTL 覆盖当天剩余时间即可，留足余量应对时区差
	sentTTL = 36 * time.Hour
	// DefaultMenuTTL 接口查询的菜单缓存时间，餐厅偶尔会在上午更新菜单
	DefaultMenuTTL = 10 * time.Minute
)

// Store 只保存两类短期数据：当天是否已发送、最近一次抓取的菜单。
// 历史菜单不落库
type Store struct {
	Redis   *redis.Client
	MenuTTL time.Duration
}

func NewStore(redisAddr string) (*Store, error) {
	if redisAddr == "" {
		return nil, errors.New("redis address is empty")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{Redis: rdb, MenuTTL: DefaultMenuTTL}, nil
}

func (s *Store) Close() error {
	return s.Redis.Close()
}

// dayKey 按本地日期分桶，例如 lunch:sent:2026-10-15
func dayKey(prefix string, day time.Time) string {
	return fmt.Sprintf("lunch:%s:%s", prefix, day.Format("2006-01-02"))
}

// AlreadySent 当天的菜单是否已经发出
func (s *Store) AlreadySent(ctx context.Context, day time.Time) (bool, error) {
	n, err := s.Redis.Exists(ctx, dayKey("sent", day)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// MarkSent 记录当天已发送
func (s *Store) MarkSent(ctx context.Context, day time.Time) error {
	if err := s.Redis.Set(ctx, dayKey("sent", day), time.Now().Format(time.RFC3339), sentTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CacheMenus 缓存当天抓取结果，供 HTTP 接口复用，避免频繁访问餐厅网站
func (s *Store) CacheMenus(ctx context.Context, day time.Time, menus []menu.Menu) error {
	bs, err := json.Marshal(menus)
	if err != nil {
		return fmt.Errorf("encode menus: %w", err)
	}
	ttl := s.MenuTTL
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	if err := s.Redis.Set(ctx, dayKey("menus", day), bs, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CachedMenus 读取缓存，未命中或数据损坏时返回 false
func (s *Store) CachedMenus(ctx context.Context, day time.Time) ([]menu.Menu, bool) {
	bs, err := s.Redis.Get(ctx, dayKey("menus", day)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("warn: read menu cache: %v", err)
		}
		return nil, false
	}
	var cached []menu.Menu
	if err := json.Unmarshal(bs, &cached); err != nil {
		log.Printf("warn: decode menu cache: %v", err)
		return nil, false
	}
	return cached, true
}
