package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxPool Postgres가 사용하는 *pgxpool.Pool의 메서드
type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres PostgreSQL에 직접 연결하는 저장소
type Postgres struct {
	pool pgxPool
}

// NewPostgres dsn으로 커넥션 풀을 생성하고 연결을 확인합니다.
func NewPostgres(ctx context.Context, dsn string, connectTimeout time.Duration) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "PostgreSQL 접속 정보(dsn)를 해석할 수 없습니다")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "PostgreSQL 커넥션 풀 생성에 실패했습니다")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "PostgreSQL 연결 확인에 실패했습니다")
	}

	return &Postgres{pool: pool}, nil
}

// FetchRow id 컬럼을 문자열로 비교하므로 uuid와 정수 id를 같은 방식으로 조회할 수 있습니다.
//
// 테이블과 컬럼 이름은 식별자 검사를 통과해야 하며 인용 부호로 감싸 쿼리에 넣습니다.
// 행이 없으면 NotFound, 시간 초과는 Timeout, 그 밖의 실패는 Unavailable 에러를 반환합니다.
func (s *Postgres) FetchRow(ctx context.Context, table, id string, columns ...string) (map[string]any, error) {
	if err := validateIdentifiers(append([]string{table}, columns...)...); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, selectByIDQuery(table, columns), id)
	if err != nil {
		return nil, wrapQueryErr(ctx, err, table)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, newErrRowNotFound(table, id)
		}
		return nil, wrapQueryErr(ctx, err, table)
	}
	return row, nil
}

// DeleteOlderThan column 값이 cutoff보다 이전인 행을 삭제하고 삭제된 행 수를 반환합니다.
func (s *Postgres) DeleteOlderThan(ctx context.Context, table, column string, cutoff time.Time) (int64, error) {
	if err := validateIdentifiers(table, column); err != nil {
		return 0, err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s < $1",
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{column}.Sanitize())

	tag, err := s.pool.Exec(ctx, sql, cutoff)
	if err != nil {
		return 0, wrapQueryErr(ctx, err, table)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"table":   table,
		"column":  column,
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": tag.RowsAffected(),
	}).Debug("오래된 행 삭제 완료 (PostgreSQL)")

	return tag.RowsAffected(), nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "PostgreSQL 연결 확인에 실패했습니다")
	}
	return nil
}

func (s *Postgres) Close() {
	s.pool.Close()
}

// selectByIDQuery 컬럼이 비어 있으면 전체 컬럼을 조회합니다.
func selectByIDQuery(table string, columns []string) string {
	projection := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = pgx.Identifier{c}.Sanitize()
		}
		projection = strings.Join(quoted, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE id::text = $1 LIMIT 1", projection, pgx.Identifier{table}.Sanitize())
}

func wrapQueryErr(ctx context.Context, err error, table string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Wrapf(err, apperrors.Timeout, "'%s' 조회 시간이 초과되었습니다", table)
	}
	return apperrors.Wrapf(err, apperrors.Unavailable, "'%s' 조회에 실패했습니다", table)
}
