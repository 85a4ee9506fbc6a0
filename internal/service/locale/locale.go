// Package locale 알림 문구의 언어별 카탈로그를 제공합니다.
//
// 문구는 메시지 키(catalog.Msg*)로 조회하며, 기본 언어는 아랍어입니다.
package locale

import (
	"strings"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage 설정이 없을 때 사용하는 언어
const DefaultLanguage = "ar"

var (
	supported = []language.Tag{language.Arabic, language.English}
	matcher   = language.NewMatcher(supported)

	messages = newCatalog()
)

// Localizer 한 언어로 고정된 문구 생성기입니다. 동시에 사용해도 안전합니다.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New lang은 BCP 47 태그(ar, en, ar-EG 등)입니다. 지원하지 않는 언어는 에러를 반환합니다.
func New(lang string) (*Localizer, error) {
	if strings.TrimSpace(lang) == "" {
		lang = DefaultLanguage
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "언어 태그를 해석할 수 없습니다: '%s'", lang)
	}

	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 언어입니다: '%s'", lang)
	}

	base := supported[idx]
	return &Localizer{
		tag:     base,
		printer: message.NewPrinter(base, message.Catalog(messages)),
	}, nil
}

// MustNew 테스트와 기본값 구성에 사용합니다.
func MustNew(lang string) *Localizer {
	l, err := New(lang)
	if err != nil {
		panic(err)
	}
	return l
}

// Language 선택된 언어 태그
func (l *Localizer) Language() string {
	return l.tag.String()
}

// Text key에 해당하는 문구를 args로 채워 반환합니다.
//
// 숫자는 언어별 숫자 표기로 바뀌지 않도록 호출 측에서 문자열로 변환해 전달합니다.
func (l *Localizer) Text(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Arabic))
	for key, text := range arabic {
		_ = b.SetString(language.Arabic, key, text)
	}
	for key, text := range english {
		_ = b.SetString(language.English, key, text)
	}
	return b
}
