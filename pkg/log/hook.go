package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 하나의 로그 이벤트를 여러 Writer로 분배합니다.
//
// 분배 규칙:
//   - main: INFO ~ PANIC
//   - critical: ERROR ~ PANIC (main에도 함께 기록)
//   - verbose: DEBUG, TRACE (verbose가 설정되면 main에는 기록하지 않음)
//   - console: 전체
//
// nil인 Writer는 건너뜁니다. close 이후의 로그는 조용히 버립니다.
type hook struct {
	mainWriter     io.Writer // 운영 로그
	criticalWriter io.Writer // 장애 분석용 에러 로그
	verboseWriter  io.Writer // 디버깅 로그
	consoleWriter  io.Writer // 표준 출력

	formatter Formatter

	mu     sync.RWMutex // Fire(RLock)와 close(Lock) 사이의 동시성 제어
	closed bool
}

// Levels 모든 레벨을 수신합니다. 분배는 Fire에서 결정합니다.
func (h *hook) Levels() []Level {
	return AllLevels
}

// Fire 로그를 한 번만 포맷팅한 뒤 분배 규칙에 따라 각 Writer에 기록합니다.
//
// 한 Writer의 쓰기가 실패해도 나머지 Writer에는 계속 기록하며, 실패는 표준 에러로 알리고
// 첫 번째 에러만 반환합니다.
func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error
	write := func(w io.Writer, name string) {
		if w == nil {
			return
		}
		if _, err := w.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM] %s 로그 쓰기 실패: %v\n", name, err)
		}
	}

	write(h.consoleWriter, "console")

	if entry.Level <= ErrorLevel {
		write(h.criticalWriter, "critical")
	}

	if entry.Level >= DebugLevel && h.verboseWriter != nil {
		write(h.verboseWriter, "verbose")
		return firstErr
	}

	write(h.mainWriter, "main")

	return firstErr
}

// close 이후 Fire는 아무것도 기록하지 않습니다. Writer 자체는 닫지 않습니다.
func (h *hook) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
}
