package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
)

// maxResponseBytes 응답 본문의 최대 크기
const maxResponseBytes = 4 << 20

// Request 요청 정보
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   io.Reader
}

// ReadBody 요청을 수행하고 2xx 응답의 본문을 반환합니다.
//
// 에러 분류:
//   - 전송 실패: context 마감이면 Timeout, 그 외 Unavailable
//   - 5xx, 429: Unavailable (HTTPStatusError를 감쌈)
//   - 그 외 2xx가 아닌 응답: ExecutionFailed (HTTPStatusError를 감쌈)
func ReadBody(ctx context.Context, f Fetcher, r Request) ([]byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, r.Body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "HTTP 요청 생성에 실패했습니다 (URL: %s)", redactRawURL(r.URL))
	}
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}

	resp, err := f.Do(req)
	if err != nil {
		errType := apperrors.Unavailable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			errType = apperrors.Timeout
		}
		return nil, apperrors.Wrapf(err, errType, "HTTP 요청 전송 중 에러가 발생했습니다 (URL: %s)", redactURL(req.URL))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Unavailable, "HTTP 응답 본문을 읽지 못했습니다 (URL: %s)", redactURL(req.URL))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        redactURL(req.URL),
			Body:       body,
		}
		errType := apperrors.ExecutionFailed
		if statusErr.Temporary() {
			errType = apperrors.Unavailable
		}
		return nil, apperrors.Wrap(statusErr, errType, "HTTP 요청이 실패 응답을 반환했습니다")
	}

	return body, nil
}

// StatusError err 체인에서 HTTPStatusError를 찾습니다.
func StatusError(err error) (*HTTPStatusError, bool) {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
