package fetcher

import (
	"fmt"
	"net/http"
)

const bodySnippetLimit = 512

// HTTPStatusError 2xx가 아닌 응답을 나타냅니다. 응답 본문은 Body에 그대로 보존됩니다.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += " URL: " + e.URL
	}
	if snippet := e.BodySnippet(); snippet != "" {
		msg += ", Body: " + snippet
	}
	return msg
}

// BodySnippet 로그용으로 잘라낸 응답 본문
func (e *HTTPStatusError) BodySnippet() string {
	if len(e.Body) <= bodySnippetLimit {
		return string(e.Body)
	}
	return string(e.Body[:bodySnippetLimit]) + "..."
}

// Temporary 서버 측 일시 장애(5xx, 429)인지 여부
func (e *HTTPStatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}
