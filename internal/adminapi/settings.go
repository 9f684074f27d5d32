package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", updateSettings)
}

func listSettings(c echo.Context) error {
	if !requireAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	var rows []domain.SysConfig
	db := GetDB(c).Model(&domain.SysConfig{})
	if v := c.QueryParam("type"); v != "" {
		db = db.Where("type = ?", v)
	}
	if err := db.Order("type, name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

// updateSettings accepts a flat map of "category.key" names to values
func updateSettings(c echo.Context) error {
	if !requireAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", nil)
	}
	if len(payload) == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "No settings supplied", nil)
	}
	for key := range payload {
		if !strings.Contains(key, ".") {
			return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Setting keys use the category.key form", key)
		}
	}
	if err := GetApp(c).SaveSettings(payload); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}
	return ok(c, map[string]interface{}{"updated": len(payload)})
}
