package maputil

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// timeLayouts 데이터베이스와 웹훅 페이로드에서 관찰되는 시간 문자열 형식
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// ParseTime timeLayouts 순서대로 s를 해석합니다. 시간대가 없는 형식은 UTC로 간주합니다.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("지원하지 않는 시간 형식입니다: %q", s)
}

// stringToTimeHookFunc 문자열을 time.Time으로 변환합니다. 빈 문자열은 zero value가 됩니다.
func stringToTimeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != timeType {
			return data, nil
		}

		s := reflect.ValueOf(data).String()
		if strings.TrimSpace(s) == "" {
			return time.Time{}, nil
		}
		return ParseTime(s)
	}
}

// stringToDurationHookFunc "10s" 같은 문자열을 time.Duration으로 변환합니다.
// 목적 타입이 정확히 time.Duration일 때만 동작하며 int64 필드에는 영향을 주지 않습니다.
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != durationType {
			return data, nil
		}
		return time.ParseDuration(strings.TrimSpace(reflect.ValueOf(data).String()))
	}
}
