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

type realEstatePayload struct {
	offerPayload
	Rooms          int    `json:"rooms" validate:"required,min=1,max=6"`
	Floor          int    `json:"floor" validate:"required,min=1,max=10"`
	MaxFloor       int    `json:"max_floor" validate:"required,min=1,max=10"`
	Kitchen        bool   `json:"kitchen"`
	WiFi           bool   `json:"wifi"`
	AirConditioner bool   `json:"air_conditioner"`
	WashingMachine bool   `json:"washing_machine"`
	Sleepers       int    `json:"sleepers" validate:"required,min=1,max=6"`
	Commission     int64  `json:"commission" validate:"min=0"`
	Photo          string `json:"photo" validate:"omitempty,max=256"`
}

func registerRealEstateRoutes() {
	webserver.ApiGET("/offers/realestate", listRealEstate)
	webserver.ApiGET("/offers/realestate/:id", getRealEstate)
	webserver.ApiGET("/offers/realestate/slug/:slug", getRealEstateBySlug)
	webserver.ApiPOST("/offers/realestate", createRealEstate)
	webserver.ApiPUT("/offers/realestate/:id", updateRealEstate)
	webserver.ApiDELETE("/offers/realestate/:id", deleteRealEstate)
}

func listRealEstate(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(&domain.RealEstate{}))
	if v := c.QueryParam("rooms"); v != "" {
		db = db.Where("rooms = ?", v)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query real estate offers", err.Error())
	}

	var rows []domain.RealEstate
	order := offerSortColumn(c, "rooms", "floor") + " " + offerSortOrder(c)
	if err := db.Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query real estate offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getRealEstate(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.RealEstate
	err = GetDB(c).Preload("Locations").Preload("Owner").Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getRealEstateBySlug(c echo.Context) error {
	var rec domain.RealEstate
	err := GetDB(c).Preload("Locations").Where("slug = ?", c.Param("slug")).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createRealEstate(c echo.Context) error {
	var payload realEstatePayload
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

	rec := domain.RealEstate{
		Rooms:          payload.Rooms,
		Floor:          payload.Floor,
		MaxFloor:       payload.MaxFloor,
		Kitchen:        payload.Kitchen,
		WiFi:           payload.WiFi,
		AirConditioner: payload.AirConditioner,
		WashingMachine: payload.WashingMachine,
		Sleepers:       payload.Sleepers,
		Commission:     payload.Commission,
		Photo:          strings.TrimSpace(payload.Photo),
		Locations:      locs,
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

func updateRealEstate(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var rec domain.RealEstate
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}

	var payload realEstatePayload
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
	rec.Rooms = payload.Rooms
	rec.Floor = payload.Floor
	rec.MaxFloor = payload.MaxFloor
	rec.Kitchen = payload.Kitchen
	rec.WiFi = payload.WiFi
	rec.AirConditioner = payload.AirConditioner
	rec.WashingMachine = payload.WashingMachine
	rec.Sleepers = payload.Sleepers
	rec.Commission = payload.Commission
	rec.Photo = strings.TrimSpace(payload.Photo)

	if err := GetDB(c).Save(&rec).Error; err != nil {
		return failCreate(c, "Offer", err)
	}
	if err := GetDB(c).Model(&rec).Association("Locations").Replace(locs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update offer locations", err.Error())
	}
	return ok(c, rec)
}

func deleteRealEstate(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.RealEstate
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
