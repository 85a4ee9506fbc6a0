// Package maputil map[string]any 형태의 반정형 데이터를 구조체로 변환하는 기능을 제공합니다.
package maputil

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode input을 새로운 T로 디코딩합니다.
//
// 기본 동작:
//   - "json" 태그 사용
//   - 느슨한 타입 변환 (예: "120" -> 120, 7 -> "7")
//   - 구조체에 없는 키는 무시
//   - 문자열 시간값 -> time.Time, 문자열 기간값 -> time.Duration
func Decode[T any](input any) (*T, error) {
	out := new(T)
	if err := DecodeTo(input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeTo 이미 존재하는 output에 input을 덮어씁니다.
func DecodeTo[T any](input any, output *T) error {
	if output == nil {
		return errors.New("디코딩 결과를 저장할 output 포인터가 nil입니다")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHookFunc(),
			stringToDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("입력 데이터를 %T(으)로 디코딩하는 데 실패했습니다: %w", output, err)
	}
	return nil
}
