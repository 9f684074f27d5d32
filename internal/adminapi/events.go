package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
)

type eventPayload struct {
	offerPayload
	StartsAt time.Time `json:"starts_at" validate:"required"`
	ThemeID  int64     `json:"theme_id,string" validate:"required"`
	Photo    string    `json:"photo" validate:"omitempty,max=256"`
}

func registerEventRoutes() {
	webserver.ApiGET("/offers/events", listEvents)
	webserver.ApiGET("/offers/events/:id", getEvent)
	webserver.ApiGET("/offers/events/slug/:slug", getEventBySlug)
	webserver.ApiPOST("/offers/events", createEvent)
	webserver.ApiPUT("/offers/events/:id", updateEvent)
	webserver.ApiDELETE("/offers/events/:id", deleteEvent)
}

func listEvents(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(&domain.EventPoster{}))
	db = applyFKFilter(c, db, "theme_id", "theme_id")
	if v := c.QueryParam("upcoming"); v == "true" || v == "1" {
		db = db.Where("starts_at > ?", time.Now())
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query event offers", err.Error())
	}

	var rows []domain.EventPoster
	order := offerSortColumn(c, "starts_at") + " " + offerSortOrder(c)
	if err := db.Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query event offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.EventPoster
	err = GetDB(c).Preload("Theme").Preload("Locations").Preload("Owner").
		Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getEventBySlug(c echo.Context) error {
	var rec domain.EventPoster
	err := GetDB(c).Preload("Theme").Preload("Locations").
		Where("slug = ?", c.Param("slug")).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createEvent(c echo.Context) error {
	var payload eventPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var count int64
	GetDB(c).Model(&domain.EventTheme{}).Where("id = ?", payload.ThemeID).Count(&count)
	if count == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Event theme does not exist", "theme_id")
	}

	locs, err := resolveLocations(GetDB(c), payload.LocationIDs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "location_ids")
	}

	rec := domain.EventPoster{
		StartsAt:  payload.StartsAt,
		ThemeID:   payload.ThemeID,
		Photo:     strings.TrimSpace(payload.Photo),
		Locations: locs,
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

func updateEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var rec domain.EventPoster
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}

	var payload eventPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var count int64
	GetDB(c).Model(&domain.EventTheme{}).Where("id = ?", payload.ThemeID).Count(&count)
	if count == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Event theme does not exist", "theme_id")
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
	rec.StartsAt = payload.StartsAt
	rec.ThemeID = payload.ThemeID
	rec.Photo = strings.TrimSpace(payload.Photo)

	if err := GetDB(c).Save(&rec).Error; err != nil {
		return failCreate(c, "Offer", err)
	}
	if err := GetDB(c).Model(&rec).Association("Locations").Replace(locs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update offer locations", err.Error())
	}
	return ok(c, rec)
}

func deleteEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.EventPoster
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
