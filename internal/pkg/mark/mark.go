// Package mark 운영자 메시지에 붙이는 이모지 표식입니다.
package mark

type Mark string

// Alert 장애
const Alert Mark = "🚨"

// WithSpace 앞에 공백을 붙여 반환합니다. 비어 있으면 빈 문자열입니다.
func (m Mark) WithSpace() string {
	if m == "" {
		return ""
	}
	return " " + string(m)
}

func (m Mark) String() string {
	return string(m)
}
