package contract

// Failure 실패한 발송 한 건
type Failure struct {
	Token     string `json:"token"`
	ErrorCode string `json:"error_code"`
}

// Report 발송 결과 집계입니다. SuccessCount + FailureCount == Total을 항상 만족합니다.
type Report struct {
	SuccessCount int       `json:"success"`
	FailureCount int       `json:"failure"`
	Total        int       `json:"total"`
	Failures     []Failure `json:"failures,omitempty"`

	Suppressed bool   `json:"suppressed"`
	Category   string `json:"category,omitempty"`
}

// SuppressedReport 발송하지 않은 이벤트의 결과
func SuppressedReport() Report {
	return Report{Suppressed: true}
}

// Merge other의 결과를 합산합니다.
func (r *Report) Merge(other Report) {
	r.SuccessCount += other.SuccessCount
	r.FailureCount += other.FailureCount
	r.Total += other.Total
	r.Failures = append(r.Failures, other.Failures...)
}

// AddSuccess 성공 n건을 기록합니다.
func (r *Report) AddSuccess(n int) {
	r.SuccessCount += n
	r.Total += n
}

// AddFailure 실패 한 건을 기록합니다.
func (r *Report) AddFailure(token, code string) {
	r.FailureCount++
	r.Total++
	r.Failures = append(r.Failures, Failure{Token: token, ErrorCode: code})
}
