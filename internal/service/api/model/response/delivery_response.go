package response

import "github.com/darkkaiser/push-server/internal/service/contract"

// DeliveryResponse 발송 결과
type DeliveryResponse struct {
	Success  int                `json:"success" example:"1198"`
	Failure  int                `json:"failure" example:"2"`
	Total    int                `json:"total" example:"1200"`
	Failures []contract.Failure `json:"failures,omitempty"`
}

// EventResponse 웹훅 이벤트 처리 결과
type EventResponse struct {
	DeliveryResponse

	// Suppressed 알림 대상이 아니어서 발송하지 않았으면 true
	Suppressed bool `json:"suppressed" example:"false"`

	// Category 분류 결과 (예: price_changed, expiring_soon)
	Category string `json:"category,omitempty" example:"price_changed"`
}

func NewDeliveryResponse(r contract.Report) DeliveryResponse {
	return DeliveryResponse{
		Success:  r.SuccessCount,
		Failure:  r.FailureCount,
		Total:    r.Total,
		Failures: r.Failures,
	}
}

func NewEventResponse(r contract.Report) EventResponse {
	return EventResponse{
		DeliveryResponse: NewDeliveryResponse(r),
		Suppressed:       r.Suppressed,
		Category:         r.Category,
	}
}
