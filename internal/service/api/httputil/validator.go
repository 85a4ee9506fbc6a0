package httputil

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// 에러 메시지의 필드명으로 korean 태그를 사용합니다.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("korean"); name != "" {
				return name
			}
			return fld.Name
		})
	})

	return validate
}

// RequestValidator echo.Validator 구현체. c.Validate 실패 시 400 에러를 반환합니다.
type RequestValidator struct{}

func (RequestValidator) Validate(i any) error {
	if err := getValidator().Struct(i); err != nil {
		return NewBadRequestError(FormatValidationError(err))
	}
	return nil
}

var _ echo.Validator = RequestValidator{}

// FormatValidationError 첫 번째 검증 에러를 한글 메시지로 변환합니다.
func FormatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err.Error()
	}

	fe := validationErrors[0]
	name := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s는 필수입니다", name)
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s는 최소 %s자 이상이어야 합니다", name, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("%s는 최소 %s개 이상이어야 합니다", name, fe.Param())
		}
		return fmt.Sprintf("%s는 최소 %s 이상이어야 합니다", name, fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s는 최대 %s자까지 입력 가능합니다", name, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("%s는 최대 %s개까지 지정할 수 있습니다", name, fe.Param())
		}
		return fmt.Sprintf("%s는 최대 %s까지 입력 가능합니다", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s는 [%s] 중 하나여야 합니다", name, fe.Param())
	default:
		return fmt.Sprintf("%s 검증 실패: %s", name, fe.Tag())
	}
}
