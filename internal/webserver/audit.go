package webserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/pkg/common"
)

// auditMiddleware records every mutating admin api call in sys_opr_log.
// Read requests are not logged.
func (s *WebServer) auditMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead {
				return err
			}
			desc := c.Request().URL.Path
			if err != nil {
				desc += " (failed)"
			}
			s.application.DB().Create(&domain.SysOprLog{
				ID:        common.UUIDint64(),
				OprName:   OperatorName(c),
				OprIp:     c.RealIP(),
				OptAction: method,
				OptDesc:   desc,
				OptTime:   time.Now(),
			})
			return err
		}
	}
}
