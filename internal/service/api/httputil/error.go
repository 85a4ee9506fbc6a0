package httputil

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/model/response"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// FromError 파이프라인이 반환한 에러를 HTTP 에러로 변환합니다.
//
// 입력 오류는 원본 메시지를 그대로 노출하고, 서버 측 오류는 고정된 메시지로 대체합니다.
func FromError(err error) error {
	if err == nil {
		return nil
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return err
	}

	if apperrors.Is(err, apperrors.CredentialFailed) {
		return wrap(NewServiceUnavailableError(constants.ErrMsgCredentialUnavailable), err)
	}

	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		switch ae.Type() {
		case apperrors.InvalidInput, apperrors.ParsingFailed:
			return wrap(NewBadRequestError(ae.Message()), err)
		case apperrors.Unauthorized:
			return wrap(NewUnauthorizedError(constants.ErrMsgUnauthorized), err)
		case apperrors.NotFound:
			return wrap(NewNotFoundError(ae.Message()), err)
		case apperrors.Unavailable:
			return wrap(NewServiceUnavailableError(constants.ErrMsgServiceUnavailable), err)
		case apperrors.Timeout:
			return wrap(NewGatewayTimeoutError(constants.ErrMsgGatewayTimeout), err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return wrap(NewGatewayTimeoutError(constants.ErrMsgGatewayTimeout), err)
	}

	return wrap(NewInternalServerError(constants.ErrMsgInternalServer), err)
}

// wrap 응답 본문은 그대로 두고 로그에 남길 원인 에러를 연결합니다.
func wrap(httpErr error, cause error) error {
	var he *echo.HTTPError
	if errors.As(httpErr, &he) {
		return he.WithInternal(cause)
	}
	return httpErr
}

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// 모든 에러를 표준 ErrorResponse JSON 형식으로 변환하여 반환하고,
// 상태 코드에 따라 Error/Warn 레벨로 기록합니다.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := constants.ErrMsgInternalServer

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		if converted := FromError(err); errors.As(converted, &he) {
			err = converted
		}
	}
	if he != nil {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case response.ErrorResponse:
			message = m.Message
		}
	}

	// Echo 기본 메시지는 한국어 메시지로 통일
	switch code {
	case http.StatusNotFound:
		if he == nil || he.Internal == nil {
			message = constants.ErrMsgNotFound
		}
	case http.StatusRequestEntityTooLarge:
		message = constants.ErrMsgRequestEntityTooLarge
	}

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error(constants.LogMsgHTTP5xxServerError)
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn(constants.LogMsgHTTP4xxClientError)
	}

	// 이미 응답이 전송된 경우
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}
