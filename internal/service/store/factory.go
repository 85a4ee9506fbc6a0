package store

import (
	"context"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/fetcher"
)

const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
)

// Options 저장소 생성 옵션
type Options struct {
	Driver string

	// postgrest
	URL        string
	ServiceKey string

	// postgres
	DSN string

	Timeout time.Duration
}

// Open 옵션의 Driver에 맞는 Store를 생성합니다.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgREST, "":
		return NewPostgREST(opts.URL, opts.ServiceKey, fetcher.New(opts.Timeout)), nil
	case DriverPostgres:
		return NewPostgres(ctx, opts.DSN, opts.Timeout)
	}
	return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 저장소 드라이버입니다: '%s'", opts.Driver)
}
