package errors

import (
	"path/filepath"
	"runtime"
)

// runtime.Callers, captureStack, 생성 함수(New/Wrap 등)를 건너뛰기 위한 값
const defaultCallerSkip = 3

// maxStackFrames 에러 하나에 기록하는 최대 프레임 수
const maxStackFrames = 5

// StackFrame 에러 생성 지점의 호출 정보
type StackFrame struct {
	File     string
	Line     int
	Function string
}

func captureStack(skip int) []StackFrame {
	pc := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	frames := make([]StackFrame, 0, n)
	callersFrames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := callersFrames.Next()
		frames = append(frames, StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: frame.Function,
		})
		if !more {
			break
		}
	}

	return frames
}
