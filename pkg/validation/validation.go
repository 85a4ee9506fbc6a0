// Package validation 설정 값처럼 외부에서 들어오는 문자열의 형식을 검사합니다.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ValidateCORSOrigin Scheme://Host[:Port] 형식인지 검사합니다. "*"는 허용합니다.
//
// 경로, 쿼리, Fragment, 사용자 정보가 붙은 Origin은 브라우저가 보내지 않으므로 거부합니다.
func ValidateCORSOrigin(origin string) error {
	origin = strings.TrimSpace(origin)
	switch {
	case origin == "*":
		return nil
	case origin == "":
		return fmt.Errorf("CORS Origin이 비어 있습니다")
	case strings.HasSuffix(origin, "/"):
		return fmt.Errorf("CORS Origin은 '/'로 끝날 수 없습니다 (origin=%q)", origin)
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("CORS Origin을 URL로 해석할 수 없습니다 (origin=%q): %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CORS Origin은 http 또는 https만 허용됩니다 (origin=%q)", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("CORS Origin에는 Scheme, Host, Port 외의 요소를 포함할 수 없습니다 (origin=%q)", origin)
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("CORS Origin의 포트가 숫자가 아닙니다 (origin=%q)", origin)
		}
		if err := ValidatePort(port); err != nil {
			return err
		}
	}

	return ValidateHostname(u.Hostname())
}

// ValidatePort 1-65535
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("포트는 1에서 65535 사이여야 합니다 (port=%d)", port)
	}
	return nil
}

// ValidateHostname localhost, IP 주소, RFC 1123 호스트명을 허용합니다.
func ValidateHostname(host string) error {
	if host == "" {
		return fmt.Errorf("호스트가 비어 있습니다")
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 253 {
		return fmt.Errorf("호스트명은 253자를 넘을 수 없습니다 (len=%d)", len(host))
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return fmt.Errorf("호스트명 레이블 길이가 올바르지 않습니다 (host=%q)", host)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("호스트명 레이블은 '-'로 시작하거나 끝날 수 없습니다 (label=%q)", label)
		}
		for _, r := range label {
			if !isHostnameRune(r) {
				return fmt.Errorf("호스트명에 허용되지 않는 문자가 있습니다 (char=%q, host=%q)", r, host)
			}
		}
	}

	// 숫자로만 된 TLD는 없음
	if _, err := strconv.Atoi(labels[len(labels)-1]); err == nil {
		return fmt.Errorf("최상위 도메인은 숫자로만 구성될 수 없습니다 (host=%q)", host)
	}

	return nil
}

func isHostnameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-'
}

// ValidateHTTPURL http(s) 스킴과 호스트가 있는 절대 URL인지 검사합니다.
func ValidateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("URL 형식이 올바르지 않습니다 (url=%q): %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL은 http 또는 https 스킴을 사용해야 합니다 (url=%q)", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL에 호스트가 없습니다 (url=%q)", raw)
	}
	return nil
}
