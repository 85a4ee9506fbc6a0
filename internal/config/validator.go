package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/pkg/cronx"
	"github.com/darkkaiser/push-server/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// 예: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

// newValidator 커스텀 규칙(cors_origin, telegram_bot_token, cron_spec, http_url)을 등록한 Validator를 생성합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 에러 메시지에 Go 필드명 대신 JSON 키를 표시합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"cors_origin": func(fl validator.FieldLevel) bool {
			return validation.ValidateCORSOrigin(fl.Field().String()) == nil
		},
		"telegram_bot_token": func(fl validator.FieldLevel) bool {
			return telegramBotTokenRegex.MatchString(fl.Field().String())
		},
		"cron_spec": func(fl validator.FieldLevel) bool {
			return cronx.Validate(fl.Field().String()) == nil
		},
		"http_url": func(fl validator.FieldLevel) bool {
			return validation.ValidateHTTPURL(fl.Field().String()) == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}

	return v
}

// checkStruct 태그 규칙으로 검증하고 첫 번째 위반 항목을 읽기 쉬운 에러로 바꿉니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}

	firstErr := validationErrors[0]
	field := strings.TrimPrefix(firstErr.Namespace(), "AppConfig.")

	switch firstErr.Tag() {
	case "unique":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s 내에 중복된 ID가 존재합니다 (설정 값을 확인해주세요)", field))
	case "required", "required_if":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("필수 설정(%s)이 비어 있습니다", field))
	case "file":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 파일(%s)을 찾을 수 없습니다: '%v'", field, firstErr.Value()))
	case "cors_origin":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", firstErr.Value()))
	case "telegram_bot_token":
		return apperrors.New(apperrors.InvalidInput, "텔레그램 BotToken 형식이 올바르지 않습니다 (올바른 형식: 123456:ABC-DEF...)")
	case "cron_spec":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 cron 표현식이 올바르지 않습니다: '%v' (예: @every 45m, 0 30 3 * * *)", field, firstErr.Value()))
	case "http_url":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s는 http(s) URL이어야 합니다: '%v'", field, firstErr.Value()))
	}

	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s=%s, 값: '%v')", contextName, field, firstErr.Tag(), firstErr.Param(), firstErr.Value()))
}
