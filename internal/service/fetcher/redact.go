package fetcher

import (
	"net/url"
	"slices"
	"strings"
)

var (
	sensitiveKeys = []string{
		"token", "key", "secret", "password", "signature", "assertion",
		"apikey", "api_key", "access_token", "refresh_token", "app_key",
	}
	sensitiveSuffixes = []string{"_token", "_secret", "_key", "_password"}
)

// redactURL 사용자 정보와 민감한 쿼리 파라미터를 가린 URL 문자열을 반환합니다.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	ru := *u
	if u.User != nil {
		ru.User = url.User("xxxxx")
	}

	if u.RawQuery != "" {
		query := ru.Query()
		for key := range query {
			if isSensitiveKey(key) {
				query.Set(key, "xxxxx")
			}
		}
		ru.RawQuery = query.Encode()
	}

	return ru.String()
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if slices.Contains(sensitiveKeys, lower) {
		return true
	}
	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func redactRawURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid url)"
	}
	return redactURL(u)
}
