package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// WithComponent component 필드가 설정된 로그 엔트리를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드가 설정된 로그 엔트리를 반환합니다.
// fields에 component 키가 있더라도 인자로 전달된 component가 우선합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = component
	return logrus.WithFields(merged)
}

// SetDebugMode 디버그 모드이면 Trace, 아니면 Info 레벨로 설정합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
		return
	}
	logrus.SetLevel(InfoLevel)
}

func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func SetFormatter(f Formatter) {
	logrus.SetFormatter(f)
}

func SetLevel(level Level) {
	logrus.SetLevel(level)
}
