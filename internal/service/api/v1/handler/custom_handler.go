package handler

import (
	"net/http"

	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/httputil"
	"github.com/darkkaiser/push-server/internal/service/api/model/response"
	"github.com/darkkaiser/push-server/internal/service/api/v1/model/request"
	"github.com/darkkaiser/push-server/internal/service/contract"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// SendCustomNotificationHandler godoc
// @Summary 사용자 정의 알림 발송
// @Description 제목과 본문을 직접 지정한 알림을 기기 토큰 목록으로 발송합니다.
// @Tags Notification
// @Accept json
// @Produce json
// @Param X-App-Key header string true "Application Key"
// @Param notification body request.CustomNotificationRequest true "알림 내용과 대상"
// @Success 200 {object} response.DeliveryResponse "발송 결과"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청 (필수 필드 누락 등)"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 503 {object} response.ErrorResponse "푸시 공급자 인증 실패"
// @Failure 500 {object} response.ErrorResponse "서버 내부 오류"
// @Security ApiKeyAuth
// @Router /api/v1/notifications/custom [post]
func (h *Handler) SendCustomNotificationHandler(c echo.Context) error {
	req := new(request.CustomNotificationRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	report, err := h.processor.HandleCustom(c.Request().Context(), req.Title, req.Message, contract.TokensTarget(req.Tokens))
	if err != nil {
		return httputil.FromError(err)
	}

	h.log(c).WithFields(applog.Fields{
		"tokens":  len(req.Tokens),
		"success": report.SuccessCount,
		"failure": report.FailureCount,
	}).Info("사용자 정의 알림 발송 완료")

	return c.JSON(http.StatusOK, response.NewDeliveryResponse(report))
}
