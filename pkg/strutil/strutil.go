// Package strutil 문자열 처리 유틸리티 함수를 제공합니다.
package strutil

import "strings"

// Mask 민감한 값을 로그에 남길 수 있도록 일부만 노출합니다.
//
//	""              -> ""
//	"abc"           -> "***"
//	"abcdefgh"      -> "abcd***"
//	"abcdefghijklm" -> "abcd***jklm"
func Mask(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 3:
		return "***"
	case len(s) <= 12:
		return s[:4] + "***"
	default:
		return s[:4] + "***" + s[len(s)-4:]
	}
}

// IsBlank 문자열이 비어 있거나 공백으로만 구성되어 있는지 확인합니다.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FirstNonBlank 공백이 아닌 첫 번째 값을 앞뒤 공백을 제거하여 반환합니다. 모두 비어 있으면 ""입니다.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// JoinNonBlank 비어 있지 않은 값만 sep으로 연결합니다.
func JoinNonBlank(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

// NormalizeSpaces 연속된 공백 문자를 하나의 공백으로 줄이고 앞뒤 공백을 제거합니다.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
