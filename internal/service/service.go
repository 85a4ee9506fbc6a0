// Package service 서버를 구성하는 백그라운드 서비스의 공통 인터페이스를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service Start는 즉시 반환하고, 작업은 고루틴에서 수행합니다.
// serviceStopCtx가 취소되면 정리를 마친 뒤 serviceStopWG.Done()을 호출합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
