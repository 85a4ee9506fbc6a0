package store

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/fetcher"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/tidwall/gjson"
)

// PostgREST Supabase REST API 기반 저장소
type PostgREST struct {
	baseURL    string
	serviceKey string
	fetcher    fetcher.Fetcher
}

// NewPostgREST baseURL은 프로젝트 URL(예: https://xyz.supabase.co)입니다.
func NewPostgREST(baseURL, serviceKey string, f fetcher.Fetcher) *PostgREST {
	return &PostgREST{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		fetcher:    f,
	}
}

func (s *PostgREST) headers() map[string]string {
	return map[string]string{
		"apikey":        s.serviceKey,
		"Authorization": "Bearer " + s.serviceKey,
		"Accept":        "application/json",
	}
}

func (s *PostgREST) FetchRow(ctx context.Context, table, id string, columns ...string) (map[string]any, error) {
	if err := validateIdentifiers(append([]string{table}, columns...)...); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("limit", "1")
	if len(columns) > 0 {
		query.Set("select", strings.Join(columns, ","))
	}

	body, err := fetcher.ReadBody(ctx, s.fetcher, fetcher.Request{
		Method: http.MethodGet,
		URL:    s.baseURL + "/rest/v1/" + table + "?" + query.Encode(),
		Header: s.headers(),
	})
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "'%s' 조회 응답이 올바른 JSON이 아닙니다", table)
	}

	row := gjson.GetBytes(body, "0")
	if !row.Exists() || !row.IsObject() {
		return nil, newErrRowNotFound(table, id)
	}

	values, ok := row.Value().(map[string]any)
	if !ok {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "'%s' 조회 결과를 해석할 수 없습니다", table)
	}
	return values, nil
}

// DeleteOlderThan column < cutoff 인 행을 삭제하고 삭제된 행 수를 반환합니다.
func (s *PostgREST) DeleteOlderThan(ctx context.Context, table, column string, cutoff time.Time) (int64, error) {
	if err := validateIdentifiers(table, column); err != nil {
		return 0, err
	}

	query := url.Values{}
	query.Set(column, "lt."+cutoff.UTC().Format(time.RFC3339))
	query.Set("select", "id")

	header := s.headers()
	header["Prefer"] = "return=representation"

	body, err := fetcher.ReadBody(ctx, s.fetcher, fetcher.Request{
		Method: http.MethodDelete,
		URL:    s.baseURL + "/rest/v1/" + table + "?" + query.Encode(),
		Header: header,
	})
	if err != nil {
		return 0, err
	}

	deleted := gjson.GetBytes(body, "#").Int()

	applog.WithComponentAndFields(component, applog.Fields{
		"table":   table,
		"column":  column,
		"cutoff":  cutoff.Format(time.RFC3339),
		"deleted": deleted,
	}).Debug("오래된 행 삭제 완료 (PostgREST)")

	return deleted, nil
}

// Ping 존재 여부와 무관하게 REST 엔드포인트가 응답하는지 확인합니다.
func (s *PostgREST) Ping(ctx context.Context) error {
	_, err := fetcher.ReadBody(ctx, s.fetcher, fetcher.Request{
		Method: http.MethodGet,
		URL:    s.baseURL + "/rest/v1/?limit=" + strconv.Itoa(0),
		Header: s.headers(),
	})
	return err
}

func (s *PostgREST) Close() {}
