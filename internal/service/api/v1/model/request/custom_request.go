package request

// CustomNotificationRequest 관리자가 작성한 임의의 알림
type CustomNotificationRequest struct {
	// 알림 제목
	Title string `json:"title" validate:"required,max=200" korean:"title" example:"서비스 점검 안내"`

	// 알림 본문
	Message string `json:"message" validate:"required,max=2000" korean:"message" example:"오늘 밤 12시부터 30분간 점검이 진행됩니다"`

	// 발송 대상 기기 토큰
	Tokens []string `json:"tokens" validate:"required,min=1,max=10000,dive,required" korean:"tokens" example:"fcm-token-1,fcm-token-2"`
}
