package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
)

type workPayload struct {
	offerPayload
	Vacancy    string `json:"vacancy" validate:"required,min=1,max=64"`
	Period     string `json:"period" validate:"required,oneof=day month other"`
	Experience bool   `json:"experience"`
	FullTime   bool   `json:"full_time"`
	Photo      string `json:"photo" validate:"omitempty,max=256"`
}

func registerWorkRoutes() {
	webserver.ApiGET("/offers/work", listWork)
	webserver.ApiGET("/offers/work/:id", getWork)
	webserver.ApiGET("/offers/work/slug/:slug", getWorkBySlug)
	webserver.ApiPOST("/offers/work", createWork)
	webserver.ApiPUT("/offers/work/:id", updateWork)
	webserver.ApiDELETE("/offers/work/:id", deleteWork)
}

func listWork(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(&domain.Work{}))
	if v := strings.TrimSpace(c.QueryParam("period")); v != "" {
		db = db.Where("period = ?", v)
	}
	if v := c.QueryParam("full_time"); v != "" {
		db = db.Where("full_time = ?", v == "true" || v == "1")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query work offers", err.Error())
	}

	var rows []domain.Work
	order := offerSortColumn(c, "vacancy") + " " + offerSortOrder(c)
	if err := db.Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query work offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getWork(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Work
	err = GetDB(c).Preload("Locations").Preload("Owner").Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getWorkBySlug(c echo.Context) error {
	var rec domain.Work
	err := GetDB(c).Preload("Locations").Where("slug = ?", c.Param("slug")).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createWork(c echo.Context) error {
	var payload workPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	locs, err := resolveLocations(GetDB(c), payload.LocationIDs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "location_ids")
	}

	rec := domain.Work{
		Vacancy:    strings.TrimSpace(payload.Vacancy),
		Period:     payload.Period,
		Experience: payload.Experience,
		FullTime:   payload.FullTime,
		Photo:      strings.TrimSpace(payload.Photo),
		Locations:  locs,
	}
	payload.apply(&rec.OfferCommon)
	if err := enforceOwner(c, &rec.OfferCommon); err != nil {
		return failForbidden(c)
	}

	if err := createOffer(GetDB(c), &rec, &rec.OfferCommon); err != nil {
		return failCreate(c, "Offer", err)
	}
	return ok(c, rec)
}

func updateWork(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var rec domain.Work
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}

	var payload workPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	locs, err := resolveLocations(GetDB(c), payload.LocationIDs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "location_ids")
	}

	slug, owner := rec.Slug, rec.OwnerID
	payload.apply(&rec.OfferCommon)
	if payload.Slug == "" {
		rec.Slug = slug
	}
	if err := applyOwnerOnUpdate(c, &rec.OfferCommon, owner, payload.OwnerID); err != nil {
		return failForbidden(c)
	}
	rec.Vacancy = strings.TrimSpace(payload.Vacancy)
	rec.Period = payload.Period
	rec.Experience = payload.Experience
	rec.FullTime = payload.FullTime
	rec.Photo = strings.TrimSpace(payload.Photo)

	if err := GetDB(c).Save(&rec).Error; err != nil {
		return failCreate(c, "Offer", err)
	}
	if err := GetDB(c).Model(&rec).Association("Locations").Replace(locs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update offer locations", err.Error())
	}
	return ok(c, rec)
}

func deleteWork(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Work
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}
	if err := GetDB(c).Select(clause.Associations).Delete(&rec).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete offer", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
