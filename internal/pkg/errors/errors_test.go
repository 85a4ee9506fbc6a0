package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(InvalidInput, "record가 없습니다")

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, InvalidInput, appErr.Type())
	assert.Equal(t, "record가 없습니다", appErr.Message())
	assert.Equal(t, "[InvalidInput] record가 없습니다", err.Error())
	assert.NotEmpty(t, appErr.Stack())
}

func TestWrap(t *testing.T) {
	t.Run("nil 에러는 nil을 반환한다", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, System, "무시"))
		assert.Nil(t, Wrapf(nil, System, "무시 %d", 1))
	})

	t.Run("원인 에러가 체인에 유지된다", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrapf(cause, CredentialFailed, "토큰 교환 실패 (%s)", "oauth2")

		assert.Equal(t, "[CredentialFailed] 토큰 교환 실패 (oauth2): connection refused", err.Error())
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, cause, RootCause(err))
	})
}

func TestIs(t *testing.T) {
	inner := New(Timeout, "조회 시간 초과")
	outer := Wrap(inner, EnrichmentFailed, "상품명 조회 실패")

	tests := []struct {
		name     string
		err      error
		errType  ErrorType
		expected bool
	}{
		{"바깥쪽 분류", outer, EnrichmentFailed, true},
		{"안쪽 분류", outer, Timeout, true},
		{"체인에 없는 분류", outer, CredentialFailed, false},
		{"표준 에러", errors.New("plain"), Internal, false},
		{"nil", nil, Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Is(tt.err, tt.errType))
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, Unknown, TypeOf(errors.New("plain")))
	assert.Equal(t, Unavailable, TypeOf(New(Unavailable, "점검 중")))
	assert.Equal(t, CredentialFailed, TypeOf(fmt.Errorf("감쌈: %w", New(CredentialFailed, "키 오류"))))
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "EnrichmentFailed", EnrichmentFailed.String())
	assert.Equal(t, "ErrorType(99)", ErrorType(99).String())
	assert.Equal(t, "ErrorType(-1)", ErrorType(-1).String())
}

func TestAppError_Format(t *testing.T) {
	err := Wrap(errors.New("EOF"), ParsingFailed, "응답 해석 실패")

	assert.Equal(t, err.Error(), fmt.Sprintf("%s", err))
	assert.Equal(t, fmt.Sprintf("%q", err.Error()), fmt.Sprintf("%q", err))

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "[ParsingFailed] 응답 해석 실패")
	assert.Contains(t, detailed, "Stack trace:")
	assert.Contains(t, detailed, "Caused by:")
	assert.Contains(t, detailed, "EOF")
}
