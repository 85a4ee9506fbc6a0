package errors

import "strconv"

// ErrorType 에러의 분류입니다. HTTP 경계에서는 이 분류를 기준으로 상태 코드를 결정합니다.
type ErrorType int

const (
	// Unknown 분류되지 않은 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류
	Internal

	// System 인프라 오류 (파일, 네트워크 초기화 등)
	System

	// Unauthorized 인증 실패
	Unauthorized

	// InvalidInput 잘못된 입력값
	InvalidInput

	// NotFound 대상을 찾을 수 없음
	NotFound

	// ExecutionFailed 외부 호출 또는 작업 수행 실패
	ExecutionFailed

	// ParsingFailed 응답 또는 레코드 해석 실패
	ParsingFailed

	// Timeout 시간 초과
	Timeout

	// Unavailable 외부 서비스 일시적 사용 불가
	Unavailable

	// CredentialFailed 푸시 공급자 액세스 토큰 발급 실패. 해당 이벤트의 발송은 중단됩니다.
	CredentialFailed

	// EnrichmentFailed 표시용 필드 조회 실패. 기본 문구로 대체되며 발송은 계속됩니다.
	EnrichmentFailed
)

var errorTypeNames = [...]string{
	Unknown:          "Unknown",
	Internal:         "Internal",
	System:           "System",
	Unauthorized:     "Unauthorized",
	InvalidInput:     "InvalidInput",
	NotFound:         "NotFound",
	ExecutionFailed:  "ExecutionFailed",
	ParsingFailed:    "ParsingFailed",
	Timeout:          "Timeout",
	Unavailable:      "Unavailable",
	CredentialFailed: "CredentialFailed",
	EnrichmentFailed: "EnrichmentFailed",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}
