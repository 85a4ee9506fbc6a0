// Package handler v1 API 핸들러를 제공합니다.
package handler

import (
	"context"

	"github.com/darkkaiser/push-server/internal/service/api/auth"
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/contract"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// EventProcessor pipeline.Pipeline
type EventProcessor interface {
	Handle(ctx context.Context, ev contract.ChangeEvent, target contract.Target) (contract.Report, error)
	HandleCustom(ctx context.Context, title, message string, target contract.Target) (contract.Report, error)
}

// Handler v1 API 요청을 파이프라인으로 전달합니다.
type Handler struct {
	processor EventProcessor
}

// New Handler를 생성합니다.
//
// Panics:
//   - processor가 nil인 경우
func New(processor EventProcessor) *Handler {
	if processor == nil {
		panic("EventProcessor는 필수입니다")
	}

	return &Handler{processor: processor}
}

// log 공통 로깅 필드가 설정된 로거 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *applog.Entry {
	fields := applog.Fields{
		"endpoint":   c.Path(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if app, ok := auth.GetApplication(c); ok {
		fields["application_id"] = app.ID
	}

	return applog.WithComponentAndFields(constants.ComponentHandler, fields)
}
