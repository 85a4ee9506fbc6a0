// Package fetcher 외부 HTTP API 호출에 사용하는 Fetcher 체인을 제공합니다.
//
// Fetcher는 http.Client.Do와 같은 형태의 인터페이스이며, 로깅 같은 부가 기능을
// 데코레이터로 감싸 조합합니다. 재시도는 수행하지 않습니다.
package fetcher

import (
	"net/http"
	"time"
)

const component = "fetcher"

// defaultClientTimeout 호출 측 context에 마감 시간이 없을 때의 안전장치
const defaultClientTimeout = 30 * time.Second

// Fetcher HTTP 요청을 수행합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher http.Client를 사용하는 기본 Fetcher
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher timeout이 0 이하이면 기본값(30초)을 사용합니다.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 64

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

// New 로깅이 적용된 기본 Fetcher 체인을 생성합니다.
func New(timeout time.Duration) Fetcher {
	return NewLoggingFetcher(NewHTTPFetcher(timeout))
}
