// Package cache 조회 결과를 짧은 기간 보관하는 캐시를 제공합니다.
//
// 캐시는 부가 기능이므로 구현체의 오류는 호출 측에서 캐시 미스로 취급합니다.
package cache

import (
	"context"
	"time"
)

// Cache 문자열 값을 TTL과 함께 보관합니다.
type Cache interface {
	// Get 값이 없거나 만료되었으면 ok=false를 반환합니다.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// Nop 아무것도 보관하지 않는 캐시
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Nop) Close() error { return nil }
