package webserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/pkg/common"
)

// ContextKeyOperator holds the authenticated operator username
const ContextKeyOperator = "baliboard_operator"

// ContextKeyOperatorID holds the authenticated operator account id
const ContextKeyOperatorID = "baliboard_operator_id"

// ContextKeyOperatorLevel holds the authenticated operator level
const ContextKeyOperatorLevel = "baliboard_operator_level"

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type loginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Level    string `json:"level"`
}

func (s *WebServer) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse login parameters")
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	username := strings.TrimSpace(payload.Username)
	var account domain.Account
	err := s.application.DB().Where("username = ?", username).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to query account")
	}

	if account.Status != common.ENABLED {
		return echo.NewHTTPError(http.StatusForbidden, "account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(payload.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	cfg := s.application.Config().Web
	// uid travels as a string, snowflake ids overflow json numbers
	claims := jwt.MapClaims{
		"usr": account.Username,
		"lvl": account.Level,
		"uid": strconv.FormatInt(account.ID, 10),
		"exp": time.Now().Add(time.Duration(cfg.JwtExpire) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign token")
	}

	s.application.DB().Model(&domain.Account{}).
		Where("id = ?", account.ID).Update("last_login", time.Now())

	zap.L().Info("operator login", zap.String("username", account.Username))
	return c.JSON(http.StatusOK, loginResult{
		Token:    signed,
		Username: account.Username,
		Level:    account.Level,
	})
}

func (s *WebServer) jwtMiddleware() echo.MiddlewareFunc {
	secret := s.application.Config().Web.Secret
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		SuccessHandler: func(c echo.Context) {
			if token, ok := c.Get("user").(*jwt.Token); ok {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					if usr, ok := claims["usr"].(string); ok {
						c.Set(ContextKeyOperator, usr)
					}
					if lvl, ok := claims["lvl"].(string); ok {
						c.Set(ContextKeyOperatorLevel, lvl)
					}
					if uid, ok := claims["uid"].(string); ok {
						if id, err := strconv.ParseInt(uid, 10, 64); err == nil {
							c.Set(ContextKeyOperatorID, id)
						}
					}
				}
			}
		},
	})
}

// OperatorName returns the authenticated operator username or empty
func OperatorName(c echo.Context) string {
	if v, ok := c.Get(ContextKeyOperator).(string); ok {
		return v
	}
	return ""
}

// OperatorID returns the authenticated operator account id or zero
func OperatorID(c echo.Context) int64 {
	if v, ok := c.Get(ContextKeyOperatorID).(int64); ok {
		return v
	}
	return 0
}

// OperatorLevel returns the authenticated operator level or empty
func OperatorLevel(c echo.Context) string {
	if v, ok := c.Get(ContextKeyOperatorLevel).(string); ok {
		return v
	}
	return ""
}
