// Package auth 웹훅 발신자와 관리 도구의 App Key 인증을 담당합니다.
package auth

import (
	"crypto/subtle"

	"github.com/darkkaiser/push-server/internal/config"
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/httputil"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/darkkaiser/push-server/pkg/strutil"
)

// Application 인증된 API 호출자
type Application struct {
	ID    string
	Title string

	appKey []byte
}

// Authenticator 설정 파일에 등록된 애플리케이션을 App Key로 식별합니다.
//
// 초기화 이후 읽기 전용이므로 여러 고루틴에서 동시에 호출해도 안전합니다.
type Authenticator struct {
	applications []*Application
}

// NewAuthenticator 설정에 등록된 애플리케이션으로 Authenticator를 생성합니다.
func NewAuthenticator(applications []config.ApplicationConfig) *Authenticator {
	apps := make([]*Application, 0, len(applications))
	for _, a := range applications {
		apps = append(apps, &Application{
			ID:     a.ID,
			Title:  a.Title,
			appKey: []byte(a.AppKey),
		})
	}

	return &Authenticator{applications: apps}
}

// Authenticate App Key와 일치하는 애플리케이션을 반환합니다.
//
// 키 비교는 상수 시간으로 수행하며, 일치하는 키가 없으면 401 에러를 반환합니다.
func (a *Authenticator) Authenticate(appKey string) (*Application, error) {
	received := []byte(appKey)

	var matched *Application
	for _, app := range a.applications {
		// 일치 여부와 무관하게 모든 항목을 비교합니다.
		if subtle.ConstantTimeCompare(app.appKey, received) == 1 && matched == nil {
			matched = app
		}
	}

	if matched == nil {
		applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
			"received_app_key": strutil.Mask(appKey),
		}).Warn("등록되지 않은 App Key")

		return nil, httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	return matched, nil
}
