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

// goodsRecord is the shared behaviour of the buy/sell family tables
// (BuySell, Food, Taxi, Trip), which carry the same column set.
type goodsRecord interface {
	Common() *domain.OfferCommon
	SetGoods(product, unit string, delivery bool, photo string)
	SetLocations([]domain.Location)
}

type goodsDef struct {
	path      string
	title     string
	newRecord func() goodsRecord
	newList   func() interface{}
}

var goodsRegistry = []goodsDef{
	{
		path: "buysell", title: "Buy/sell offer",
		newRecord: func() goodsRecord { return &domain.BuySell{} },
		newList:   func() interface{} { return &[]domain.BuySell{} },
	},
	{
		path: "food", title: "Food offer",
		newRecord: func() goodsRecord { return &domain.Food{} },
		newList:   func() interface{} { return &[]domain.Food{} },
	},
	{
		path: "taxi", title: "Taxi offer",
		newRecord: func() goodsRecord { return &domain.Taxi{} },
		newList:   func() interface{} { return &[]domain.Taxi{} },
	},
	{
		path: "trips", title: "Trip offer",
		newRecord: func() goodsRecord { return &domain.Trip{} },
		newList:   func() interface{} { return &[]domain.Trip{} },
	},
}

type goodsPayload struct {
	offerPayload
	Product  string `json:"product" validate:"required,min=1,max=64"`
	Unit     string `json:"unit" validate:"required,oneof=piece kg gram"`
	Delivery bool   `json:"delivery"`
	Photo    string `json:"photo" validate:"omitempty,max=256"`
}

func registerGoodsRoutes() {
	for i := range goodsRegistry {
		def := goodsRegistry[i]
		base := "/offers/" + def.path
		webserver.ApiGET(base, func(c echo.Context) error { return listGoods(c, &def) })
		webserver.ApiGET(base+"/:id", func(c echo.Context) error { return getGoods(c, &def) })
		webserver.ApiGET(base+"/slug/:slug", func(c echo.Context) error { return getGoodsBySlug(c, &def) })
		webserver.ApiPOST(base, func(c echo.Context) error { return createGoods(c, &def) })
		webserver.ApiPUT(base+"/:id", func(c echo.Context) error { return updateGoods(c, &def) })
		webserver.ApiDELETE(base+"/:id", func(c echo.Context) error { return deleteGoods(c, &def) })
	}
}

func listGoods(c echo.Context, def *goodsDef) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(def.newRecord()))
	if v := strings.TrimSpace(c.QueryParam("unit")); v != "" {
		db = db.Where("unit = ?", v)
	}
	if v := c.QueryParam("delivery"); v != "" {
		db = db.Where("delivery = ?", v == "true" || v == "1")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.path+" offers", err.Error())
	}

	rows := def.newList()
	order := offerSortColumn(c, "product") + " " + offerSortOrder(c)
	if err := db.Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.path+" offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getGoods(c echo.Context, def *goodsDef) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	rec := def.newRecord()
	err = GetDB(c).Preload("Locations").Preload("Owner").Where("id = ?", id).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getGoodsBySlug(c echo.Context, def *goodsDef) error {
	rec := def.newRecord()
	err := GetDB(c).Preload("Locations").Where("slug = ?", c.Param("slug")).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createGoods(c echo.Context, def *goodsDef) error {
	var payload goodsPayload
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

	rec := def.newRecord()
	rec.SetGoods(strings.TrimSpace(payload.Product), payload.Unit, payload.Delivery, strings.TrimSpace(payload.Photo))
	rec.SetLocations(locs)
	payload.apply(rec.Common())
	if err := enforceOwner(c, rec.Common()); err != nil {
		return failForbidden(c)
	}

	if err := createOffer(GetDB(c), rec, rec.Common()); err != nil {
		return failCreate(c, def.title, err)
	}
	return ok(c, rec)
}

func updateGoods(c echo.Context, def *goodsDef) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	rec := def.newRecord()
	if err := GetDB(c).Where("id = ?", id).First(rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.Common().OwnerID) {
		return failForbidden(c)
	}

	var payload goodsPayload
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

	oc := rec.Common()
	slug, owner := oc.Slug, oc.OwnerID
	payload.apply(oc)
	if payload.Slug == "" {
		oc.Slug = slug
	}
	if err := applyOwnerOnUpdate(c, oc, owner, payload.OwnerID); err != nil {
		return failForbidden(c)
	}
	rec.SetGoods(strings.TrimSpace(payload.Product), payload.Unit, payload.Delivery, strings.TrimSpace(payload.Photo))

	if err := GetDB(c).Save(rec).Error; err != nil {
		return failCreate(c, def.title, err)
	}
	if err := GetDB(c).Model(rec).Association("Locations").Replace(locs); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update offer locations", err.Error())
	}
	return ok(c, rec)
}

func deleteGoods(c echo.Context, def *goodsDef) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	rec := def.newRecord()
	if err := GetDB(c).Where("id = ?", id).First(rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.Common().OwnerID) {
		return failForbidden(c)
	}
	if err := GetDB(c).Select(clause.Associations).Delete(rec).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete offer", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
