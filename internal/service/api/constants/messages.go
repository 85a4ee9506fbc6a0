package constants

// 클라이언트에게 반환되는 에러 메시지 상수입니다.
const (
	// 400 Bad Request
	ErrMsgBadRequest            = "잘못된 요청입니다"
	ErrMsgBadRequestInvalidBody = "요청 본문을 파싱할 수 없습니다. JSON 형식을 확인해주세요"

	// 401 Unauthorized
	ErrMsgUnauthorized = "인증에 실패했습니다"

	// 404 Not Found
	ErrMsgNotFound = "요청한 리소스를 찾을 수 없습니다"

	// 413 Request Entity Too Large
	ErrMsgRequestEntityTooLarge = "요청 본문이 너무 큽니다"

	// 415 Unsupported Media Type
	ErrMsgUnsupportedMediaType = "지원하지 않는 미디어 타입입니다"

	// 429 Too Many Requests
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"

	// 500 Internal Server Error
	ErrMsgInternalServer = "내부 서버 오류가 발생했습니다"

	// 503 Service Unavailable
	ErrMsgCredentialUnavailable = "푸시 공급자 인증에 실패하여 발송할 수 없습니다. 잠시 후 다시 시도해주세요"
	ErrMsgServiceUnavailable    = "일시적으로 서비스를 사용할 수 없습니다. 잠시 후 다시 시도해주세요"

	// 504 Gateway Timeout
	ErrMsgGatewayTimeout = "처리 시간이 초과되었습니다"

	ErrMsgAppKeyRequired = "app_key는 필수입니다 (X-App-Key 헤더)"
)

// 내부 로깅 메시지
const (
	LogMsgServiceStarting       = "API 서비스 시작중..."
	LogMsgServiceStarted        = "API 서비스 시작됨"
	LogMsgServiceAlreadyStarted = "API 서비스가 이미 시작됨!!!"
	LogMsgServiceStopping       = "API 서비스 중지중..."
	LogMsgServiceStopped        = "API 서비스 중지됨"
	LogMsgServiceUnexpectedExit = "API 서비스가 예기치 않게 종료되었습니다"

	LogMsgServiceHTTPServerStarting      = "API 서비스 > http 서버 시작"
	LogMsgServiceHTTPServerStopped       = "API 서비스 > http 서버 중지됨"
	LogMsgServiceHTTPServerShutdownError = "API 서비스 > http 서버 종료 중 오류 발생"
	LogMsgServiceHTTPServerFatalError    = "API 서비스 > http 서버를 구성하는 중에 치명적인 오류가 발생하였습니다."

	LogMsgHTTP4xxClientError     = "HTTP 4xx: 클라이언트 요청 오류"
	LogMsgHTTP5xxServerError     = "HTTP 5xx: 서버 내부 오류"
	LogMsgUnsupportedContentType = "지원하지 않는 Content-Type 요청"
)
