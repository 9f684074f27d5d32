package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
	"github.com/baliboard/baliboard/pkg/common"
)

type accountPayload struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"omitempty,min=6,max=64"`
	Realname string `json:"realname" validate:"omitempty,max=64"`
	Mobile   string `json:"mobile" validate:"omitempty,max=32"`
	Email    string `json:"email" validate:"omitempty,email,max=128"`
	Level    string `json:"level" validate:"required,oneof=super admin user"`
	Status   string `json:"status" validate:"required,oneof=enabled disabled"`
}

func registerAccountRoutes() {
	webserver.ApiGET("/accounts", listAccounts)
	webserver.ApiGET("/accounts/:id", getAccount)
	webserver.ApiPOST("/accounts", createAccount)
	webserver.ApiPUT("/accounts/:id", updateAccount)
	webserver.ApiDELETE("/accounts/:id", deleteAccount)
}

// requireAdmin account management is an administrator surface
func requireAdmin(c echo.Context) bool {
	level := webserver.OperatorLevel(c)
	return level == "super" || level == "admin"
}

func listAccounts(c echo.Context) error {
	if !requireAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Account{})
	if v := c.QueryParam("level"); v != "" {
		db = db.Where("level = ?", v)
	}
	if v := c.QueryParam("status"); v != "" {
		db = db.Where("status = ?", v)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		q = strings.ToLower(q)
		db = db.Where("LOWER(username) LIKE ? OR LOWER(realname) LIKE ? OR LOWER(email) LIKE ?",
			"%"+q+"%", "%"+q+"%", "%"+q+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query accounts", err.Error())
	}

	var rows []domain.Account
	if err := db.Order("username").Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query accounts", err.Error())
	}
	return paged(c, rows, total, page, perPage)
}

func getAccount(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}
	// a user-level operator may only read their own account
	if !requireAdmin(c) && webserver.OperatorID(c) != id {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	var rec domain.Account
	err = GetDB(c).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}
	return ok(c, rec)
}

func createAccount(c echo.Context) error {
	if !requireAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	var payload accountPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse account parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Password == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Password is required", "password")
	}
	if payload.Level == "super" && webserver.OperatorLevel(c) != "super" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only a super account may create super accounts", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash password", nil)
	}

	rec := domain.Account{
		ID:       common.UUIDint64(),
		Username: strings.TrimSpace(payload.Username),
		Password: string(hash),
		Realname: strings.TrimSpace(payload.Realname),
		Mobile:   strings.TrimSpace(payload.Mobile),
		Email:    strings.TrimSpace(payload.Email),
		Level:    payload.Level,
		Status:   payload.Status,
	}
	if err := GetDB(c).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(c, http.StatusConflict, "USERNAME_CONFLICT", "Username already exists", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err.Error())
	}
	return ok(c, rec)
}

func updateAccount(c echo.Context) error {
	if !requireAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}

	var rec domain.Account
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}
	if rec.Level == "super" && webserver.OperatorLevel(c) != "super" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only a super account may modify super accounts", nil)
	}

	var payload accountPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse account parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Level == "super" && webserver.OperatorLevel(c) != "super" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only a super account may grant super level", nil)
	}

	rec.Username = strings.TrimSpace(payload.Username)
	rec.Realname = strings.TrimSpace(payload.Realname)
	rec.Mobile = strings.TrimSpace(payload.Mobile)
	rec.Email = strings.TrimSpace(payload.Email)
	rec.Level = payload.Level
	rec.Status = payload.Status
	if payload.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash password", nil)
		}
		rec.Password = string(hash)
	}

	if err := GetDB(c).Save(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(c, http.StatusConflict, "USERNAME_CONFLICT", "Username already exists", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update account", err.Error())
	}
	return ok(c, rec)
}

// deleteAccount removes the account; related offers keep their rows
// with owner_id cleared by the SET NULL constraint.
func deleteAccount(c echo.Context) error {
	if !requireAdmin(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Administrator access required", nil)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID", nil)
	}
	if id == webserver.OperatorID(c) {
		return fail(c, http.StatusBadRequest, "SELF_DELETE", "Cannot delete the current account", nil)
	}
	var rec domain.Account
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}
	if rec.Level == "super" && webserver.OperatorLevel(c) != "super" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only a super account may delete super accounts", nil)
	}
	if err := GetDB(c).Delete(&rec).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete account", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
