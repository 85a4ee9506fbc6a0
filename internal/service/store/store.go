// Package store 알림 문구에 필요한 레코드를 조회하는 데이터 저장소 어댑터를 제공합니다.
//
// 두 가지 구현을 제공합니다.
//   - PostgREST: Supabase REST API (/rest/v1/{table}?id=eq.{id}&select=...)
//   - Postgres: PostgreSQL 직접 연결 (pgx)
package store

import (
	"context"
	"regexp"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
)

const component = "store"

// RowFetcher 테이블에서 id로 한 행을 조회하여 지정한 컬럼만 반환합니다.
// 행이 없으면 NotFound 분류의 에러를 반환합니다.
type RowFetcher interface {
	FetchRow(ctx context.Context, table, id string, columns ...string) (map[string]any, error)
}

// Purger 오래된 행을 삭제합니다.
type Purger interface {
	DeleteOlderThan(ctx context.Context, table, column string, cutoff time.Time) (int64, error)
}

// Store RowFetcher와 Purger를 모두 제공하는 저장소
type Store interface {
	RowFetcher
	Purger

	// Ping 저장소 연결 상태를 확인합니다.
	Ping(ctx context.Context) error

	Close()
}

// identifierPattern 테이블/컬럼 이름으로 허용하는 형식
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateIdentifiers(names ...string) error {
	for _, name := range names {
		if !identifierPattern.MatchString(name) {
			return apperrors.Newf(apperrors.InvalidInput, "허용되지 않는 식별자입니다: '%s'", name)
		}
	}
	return nil
}

func newErrRowNotFound(table, id string) error {
	return apperrors.Newf(apperrors.NotFound, "'%s' 테이블에서 id='%s' 행을 찾을 수 없습니다", table, id)
}
