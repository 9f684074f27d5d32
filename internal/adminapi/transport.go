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

type transportPayload struct {
	offerPayload
	MarkID         int64  `json:"mark_id,string" validate:"required"`
	ModelID        int64  `json:"model_id,string" validate:"required"`
	Variety        string `json:"variety" validate:"required,oneof=bike motorcycle car other"`
	Year           int    `json:"year" validate:"omitempty,min=1950"`
	EngineSize     int    `json:"engine_size" validate:"min=0"`
	Delivery       bool   `json:"delivery"`
	Commission     int64  `json:"commission" validate:"min=0"`
	AirConditioner bool   `json:"air_conditioner"`
	Photo          string `json:"photo" validate:"omitempty,max=256"`
}

func registerTransportRoutes() {
	webserver.ApiGET("/offers/transport", listTransport)
	webserver.ApiGET("/offers/transport/:id", getTransport)
	webserver.ApiGET("/offers/transport/slug/:slug", getTransportBySlug)
	webserver.ApiPOST("/offers/transport", createTransport)
	webserver.ApiPUT("/offers/transport/:id", updateTransport)
	webserver.ApiDELETE("/offers/transport/:id", deleteTransport)
}

// checkTransportRefs verifies the mark/model lookup rows exist
func checkTransportRefs(c echo.Context, markID, modelID int64) error {
	var count int64
	GetDB(c).Model(&domain.TransportMark{}).Where("id = ?", markID).Count(&count)
	if count == 0 {
		return errors.New("transport mark does not exist")
	}
	GetDB(c).Model(&domain.TransportModel{}).Where("id = ?", modelID).Count(&count)
	if count == 0 {
		return errors.New("transport model does not exist")
	}
	return nil
}

func listTransport(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(&domain.Transport{}))
	db = applyFKFilter(c, db, "mark_id", "mark_id")
	db = applyFKFilter(c, db, "model_id", "model_id")
	if v := strings.TrimSpace(c.QueryParam("variety")); v != "" {
		db = db.Where("variety = ?", v)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query transport offers", err.Error())
	}

	var rows []domain.Transport
	order := offerSortColumn(c, "year") + " " + offerSortOrder(c)
	if err := db.Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query transport offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getTransport(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Transport
	err = GetDB(c).Preload("Mark").Preload("Model").Preload("Locations").Preload("Owner").
		Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getTransportBySlug(c echo.Context) error {
	var rec domain.Transport
	err := GetDB(c).Preload("Mark").Preload("Model").Preload("Locations").
		Where("slug = ?", c.Param("slug")).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createTransport(c echo.Context) error {
	var payload transportPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := checkTransportRefs(c, payload.MarkID, payload.ModelID); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}
	if payload.Year > time.Now().Year()+1 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Year is in the future", "year")
	}

	locs, err := resolveLocations(GetDB(c), payload.LocationIDs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "location_ids")
	}

	rec := domain.Transport{
		MarkID:         payload.MarkID,
		ModelID:        payload.ModelID,
		Variety:        payload.Variety,
		Year:           payload.Year,
		EngineSize:     payload.EngineSize,
		Delivery:       payload.Delivery,
		Commission:     payload.Commission,
		AirConditioner: payload.AirConditioner,
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

func updateTransport(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var rec domain.Transport
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}

	var payload transportPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := checkTransportRefs(c, payload.MarkID, payload.ModelID); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
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
	rec.MarkID = payload.MarkID
	rec.ModelID = payload.ModelID
	rec.Variety = payload.Variety
	rec.Year = payload.Year
	rec.EngineSize = payload.EngineSize
	rec.Delivery = payload.Delivery
	rec.Commission = payload.Commission
	rec.AirConditioner = payload.AirConditioner
	rec.Photo = strings.TrimSpace(payload.Photo)

	if err := GetDB(c).Save(&rec).Error; err != nil {
		return failCreate(c, "Offer", err)
	}
	if err := GetDB(c).Model(&rec).Association("Locations").Replace(locs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update offer locations", err.Error())
	}
	return ok(c, rec)
}

func deleteTransport(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Transport
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
