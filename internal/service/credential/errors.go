package credential

import (
	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
)

var (
	// ErrClientEmailMissing 서비스 계정 키에 client_email이 없을 때 반환됩니다.
	ErrClientEmailMissing = apperrors.New(apperrors.InvalidInput, "서비스 계정 키에 client_email이 없습니다")

	// ErrPrivateKeyMissing 서비스 계정 키에 private_key가 없을 때 반환됩니다.
	ErrPrivateKeyMissing = apperrors.New(apperrors.InvalidInput, "서비스 계정 키에 private_key가 없습니다")

	// ErrEmptyAccessToken 토큰 교환 응답에 access_token이 비어 있을 때 반환됩니다.
	ErrEmptyAccessToken = apperrors.New(apperrors.CredentialFailed, "토큰 교환 응답에 access_token이 없습니다")
)

// newErrMalformedPrivateKey PEM 형식(PKCS#8, PKCS#1)으로 해석할 수 없는 비밀키입니다.
// 잘못된 키는 서비스 시작 단계에서 거부합니다.
func newErrMalformedPrivateKey(cause error) error {
	return apperrors.Wrap(cause, apperrors.InvalidInput, "서비스 계정의 private_key를 RSA 비밀키로 해석할 수 없습니다")
}

func newErrReadServiceAccount(cause error, path string) error {
	return apperrors.Wrapf(cause, apperrors.System, "서비스 계정 키 파일(%s)을 읽을 수 없습니다", path)
}

func newErrParseServiceAccount(cause error) error {
	return apperrors.Wrap(cause, apperrors.ParsingFailed, "서비스 계정 키 JSON을 해석할 수 없습니다")
}

func newErrSignAssertion(cause error) error {
	return apperrors.Wrap(cause, apperrors.CredentialFailed, "토큰 교환용 JWT 서명에 실패했습니다")
}

// newErrExchangeFailed 토큰 엔드포인트 호출 실패(전송 실패, 2xx가 아닌 응답)를 CredentialFailed로 분류합니다.
func newErrExchangeFailed(cause error) error {
	return apperrors.Wrap(cause, apperrors.CredentialFailed, "액세스 토큰 교환에 실패했습니다")
}

func newErrInvalidTokenResponse() error {
	return apperrors.New(apperrors.CredentialFailed, "토큰 교환 응답이 올바른 JSON이 아닙니다")
}

func newErrWaitCancelled(cause error) error {
	return apperrors.Wrap(cause, apperrors.CredentialFailed, "액세스 토큰을 기다리는 중 요청이 취소되었습니다")
}
