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

type servicePayload struct {
	offerPayload
	KindID    int64  `json:"kind_id,string" validate:"required"`
	Unit      string `json:"unit" validate:"required,oneof=service hour other"`
	HomeVisit bool   `json:"home_visit"`
	Photo     string `json:"photo" validate:"omitempty,max=256"`
}

func registerServiceRoutes() {
	webserver.ApiGET("/offers/services", listServices)
	webserver.ApiGET("/offers/services/:id", getService)
	webserver.ApiGET("/offers/services/slug/:slug", getServiceBySlug)
	webserver.ApiPOST("/offers/services", createService)
	webserver.ApiPUT("/offers/services/:id", updateService)
	webserver.ApiDELETE("/offers/services/:id", deleteService)
}

func listServices(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(&domain.Service{}))
	db = applyFKFilter(c, db, "kind_id", "kind_id")
	if v := strings.TrimSpace(c.QueryParam("unit")); v != "" {
		db = db.Where("unit = ?", v)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query service offers", err.Error())
	}

	var rows []domain.Service
	order := offerSortColumn(c) + " " + offerSortOrder(c)
	if err := db.Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query service offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getService(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Service
	err = GetDB(c).Preload("Kind").Preload("Locations").Preload("Owner").
		Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getServiceBySlug(c echo.Context) error {
	var rec domain.Service
	err := GetDB(c).Preload("Kind").Preload("Locations").
		Where("slug = ?", c.Param("slug")).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createService(c echo.Context) error {
	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var count int64
	GetDB(c).Model(&domain.ServiceKind{}).Where("id = ?", payload.KindID).Count(&count)
	if count == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Service kind does not exist", "kind_id")
	}

	locs, err := resolveLocations(GetDB(c), payload.LocationIDs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "location_ids")
	}

	rec := domain.Service{
		KindID:    payload.KindID,
		Unit:      payload.Unit,
		HomeVisit: payload.HomeVisit,
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

func updateService(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var rec domain.Service
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}

	var payload servicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var count int64
	GetDB(c).Model(&domain.ServiceKind{}).Where("id = ?", payload.KindID).Count(&count)
	if count == 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Service kind does not exist", "kind_id")
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
	rec.KindID = payload.KindID
	rec.Unit = payload.Unit
	rec.HomeVisit = payload.HomeVisit
	rec.Photo = strings.TrimSpace(payload.Photo)

	if err := GetDB(c).Save(&rec).Error; err != nil {
		return failCreate(c, "Offer", err)
	}
	if err := GetDB(c).Model(&rec).Association("Locations").Replace(locs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update offer locations", err.Error())
	}
	return ok(c, rec)
}

func deleteService(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Service
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
