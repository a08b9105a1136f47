// Package verifycode 管理邮箱验证码：生成、带 TTL 写入 Redis、读取与作废。
package verifycode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "answerhub:verify:code:"

// Store 基于 Redis 的一次性验证码存储，条目到期后被动失效。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore 创建验证码存储。
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Store{
		rdb: rdb,
		ttl: ttl,
	}
}

// Set 以邮箱为键写入验证码，覆盖旧值并重置 TTL。
func (s *Store) Set(ctx context.Context, email, code string) error {
	if err := s.rdb.Set(ctx, keyPrefix+email, code, s.ttl).Err(); err != nil {
		return fmt.Errorf("verifycode set: %w", err)
	}
	return nil
}

// Get 读取邮箱对应的验证码，不存在或已过期返回空串。
func (s *Store) Get(ctx context.Context, email string) (string, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("verifycode get: %w", err)
	}
	return val, nil
}

// Delete 作废邮箱对应的验证码。验证成功后调用，保证验证码一次性使用。
func (s *Store) Delete(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("verifycode del: %w", err)
	}
	return nil
}

// Generate 生成 n 位随机数字验证码。
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid code length")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = '0' + (buf[i] % 10)
	}
	return string(buf), nil
}
