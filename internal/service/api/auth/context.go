package auth

import (
	"github.com/labstack/echo/v4"
)

// contextKeyApplication 인증된 Application 저장용 Context 키
const contextKeyApplication = "darkkaiser/push-server/api/auth/AuthenticatedApplication"

// SetApplication 인증된 애플리케이션 정보를 Context에 저장합니다.
func SetApplication(c echo.Context, app *Application) {
	c.Set(contextKeyApplication, app)
}

// GetApplication Context에서 인증된 애플리케이션을 조회합니다. 인증 미들웨어를 거치지 않았으면 false를 반환합니다.
func GetApplication(c echo.Context) (*Application, bool) {
	app, ok := c.Get(contextKeyApplication).(*Application)
	return app, ok && app != nil
}
