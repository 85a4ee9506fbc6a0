package fetcher

import (
	"net/http"
	"time"

	applog "github.com/darkkaiser/push-server/pkg/log"
)

// LoggingFetcher 요청 결과와 소요 시간을 기록합니다. 성공은 Debug, 실패는 Error 레벨입니다.
type LoggingFetcher struct {
	delegate Fetcher
}

func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{delegate: delegate}
}

func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      redactURL(req.URL),
		"duration": time.Since(start).String(),
	}
	if resp != nil {
		fields["status_code"] = resp.StatusCode
	}

	if err != nil {
		fields["error"] = err.Error()
		applog.WithComponentAndFields(component, fields).Error("HTTP 요청 실패")
		return resp, err
	}

	applog.WithComponentAndFields(component, fields).Debug("HTTP 요청 완료")
	return resp, nil
}
