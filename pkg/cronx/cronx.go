// Package cronx 애플리케이션 전체에서 같은 형식의 Cron 표현식을 쓰도록 파서를 한곳에 둡니다.
package cronx

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Parser 초 필드를 포함한 6필드 형식과 @every, @daily 같은 Descriptor를 지원합니다.
func Parser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate 표현식을 파싱할 수 없으면 에러를 반환합니다.
func Validate(spec string) error {
	if strings.TrimSpace(spec) == "" {
		return fmt.Errorf("cron 표현식이 비어 있습니다")
	}
	if _, err := Parser().Parse(spec); err != nil {
		return fmt.Errorf("cron 표현식 파싱 실패(spec=%q): %w", spec, err)
	}
	return nil
}
