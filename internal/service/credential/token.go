package credential

import "time"

// AccessToken 공급자 호출에 사용하는 bearer 토큰
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt now 시점에 만료까지 margin 이상 남아 있으면 true입니다.
func (t AccessToken) ValidAt(now time.Time, margin time.Duration) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-margin))
}

// Status 헬스체크용 자격 증명 상태
type Status struct {
	HasToken  bool      `json:"has_token"`
	ExpiresAt time.Time `json:"expires_at"`
	LastError string    `json:"last_error,omitempty"`
}
