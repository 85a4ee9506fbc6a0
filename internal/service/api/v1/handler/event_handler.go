package handler

import (
	"net/http"

	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/httputil"
	"github.com/darkkaiser/push-server/internal/service/api/model/response"
	"github.com/darkkaiser/push-server/internal/service/api/v1/model/request"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// PublishEventHandler godoc
// @Summary 레코드 변경 이벤트 처리
// @Description 데이터베이스 웹훅이 보내는 INSERT/UPDATE 이벤트를 분류하고, 알림 대상이면 푸시 알림을 발송합니다.
// @Description
// @Description 발송 대상은 topic 쿼리 파라미터 또는 본문의 tokens로 지정하며, 둘 다 없으면 기본 토픽으로 브로드캐스트합니다.
// @Description 알림 대상이 아닌 이벤트는 suppressed=true로 응답합니다.
// @Description
// @Description ## 사용 예시
// @Description ```bash
// @Description curl -X POST "http://localhost:2443/api/v1/events?topic=all_users" \
// @Description   -H "Content-Type: application/json" \
// @Description   -H "X-App-Key: your-app-key" \
// @Description   -d '{"type":"UPDATE","table":"books","record":{"id":"b1","price":40},"old_record":{"id":"b1","price":50}}'
// @Description ```
// @Tags Event
// @Accept json
// @Produce json
// @Param X-App-Key header string true "Application Key"
// @Param topic query string false "브로드캐스트 토픽"
// @Param event body request.EventRequest true "변경 이벤트"
// @Success 200 {object} response.EventResponse "처리 결과"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청 (record 누락, 지원하지 않는 type 등)"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 503 {object} response.ErrorResponse "푸시 공급자 인증 실패"
// @Failure 500 {object} response.ErrorResponse "서버 내부 오류"
// @Security ApiKeyAuth
// @Router /api/v1/events [post]
func (h *Handler) PublishEventHandler(c echo.Context) error {
	req := new(request.EventRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if req.Record == nil {
		return httputil.NewBadRequestError("이벤트에 record가 없습니다")
	}

	ev, err := req.ToEvent()
	if err != nil {
		return httputil.FromError(err)
	}

	report, err := h.processor.Handle(c.Request().Context(), ev, req.Target(c.QueryParam(constants.QueryParamTopic)))
	if err != nil {
		return httputil.FromError(err)
	}

	h.log(c).WithFields(applog.Fields{
		"table":      ev.Table,
		"operation":  ev.Operation.String(),
		"suppressed": report.Suppressed,
		"category":   report.Category,
		"success":    report.SuccessCount,
		"failure":    report.FailureCount,
	}).Info("변경 이벤트 처리 완료")

	return c.JSON(http.StatusOK, response.NewEventResponse(report))
}
