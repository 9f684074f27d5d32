package adminapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/baliboard/baliboard/internal/app"
	"github.com/baliboard/baliboard/internal/webserver"
)

// ErrorResponse is the error envelope returned by every failed request
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// ListResponse is the paged list envelope
type ListResponse struct {
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Detail: detail})
}

func paged(c echo.Context, data interface{}, total int64, page, perPage int) error {
	return c.JSON(http.StatusOK, ListResponse{Data: data, Total: total, Page: page, PerPage: perPage})
}

// parsePagination reads page/perPage query params with sane bounds
func parsePagination(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.QueryParam("perPage"))
	if perPage < 1 || perPage > 500 {
		perPage = 20
	}
	return page, perPage
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// handleValidationError maps validator errors to a field-level 400
func handleValidationError(c echo.Context, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]map[string]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, map[string]string{
				"field": fe.Field(),
				"rule":  fe.Tag(),
			})
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", fields)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", err.Error())
}

// GetApp fetches the application container bound to the request
func GetApp(c echo.Context) *app.Application {
	return webserver.GetApp(c)
}

// GetDB fetches the request database handle
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetApp(c).DB()
}
