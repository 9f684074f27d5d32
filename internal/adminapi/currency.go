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

type currencyQuotePayload struct {
	BaseID   int64   `json:"base_id,string" validate:"required"`
	QuoteID  int64   `json:"quote_id,string" validate:"required"`
	BuyRate  float64 `json:"buy_rate" validate:"min=0"`
	SellRate float64 `json:"sell_rate" validate:"min=0"`
	Note     string  `json:"note" validate:"omitempty,max=256"`
}

type currencyPairPayload struct {
	offerPayload
	Quotes []currencyQuotePayload `json:"quotes" validate:"required,min=1,max=9,dive"`
}

func registerCurrencyRoutes() {
	webserver.ApiGET("/offers/currency", listCurrencyPairs)
	webserver.ApiGET("/offers/currency/:id", getCurrencyPair)
	webserver.ApiGET("/offers/currency/slug/:slug", getCurrencyPairBySlug)
	webserver.ApiPOST("/offers/currency", createCurrencyPair)
	webserver.ApiPUT("/offers/currency/:id", updateCurrencyPair)
	webserver.ApiDELETE("/offers/currency/:id", deleteCurrencyPair)
}

func checkCurrencyRefs(db *gorm.DB, quotes []currencyQuotePayload) error {
	for _, q := range quotes {
		var count int64
		db.Model(&domain.CurrencyName{}).Where("id = ?", q.BaseID).Count(&count)
		if count == 0 {
			return errors.New("base currency does not exist")
		}
		db.Model(&domain.CurrencyName{}).Where("id = ?", q.QuoteID).Count(&count)
		if count == 0 {
			return errors.New("quote currency does not exist")
		}
	}
	return nil
}

func buildCurrencyQuotes(pairID int64, quotes []currencyQuotePayload) []domain.CurrencyQuote {
	rows := make([]domain.CurrencyQuote, 0, len(quotes))
	for i, q := range quotes {
		rows = append(rows, domain.CurrencyQuote{
			PairID:   pairID,
			SlotNo:   i + 1,
			BaseID:   q.BaseID,
			QuoteID:  q.QuoteID,
			BuyRate:  q.BuyRate,
			SellRate: q.SellRate,
			Note:     strings.TrimSpace(q.Note),
		})
	}
	return rows
}

func listCurrencyPairs(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(&domain.CurrencyPair{}))

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query currency offers", err.Error())
	}

	var rows []domain.CurrencyPair
	order := offerSortColumn(c) + " " + offerSortOrder(c)
	err := db.Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("slot_no") }).
		Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query currency offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getCurrencyPair(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.CurrencyPair
	err = GetDB(c).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("slot_no") }).
		Preload("Quotes.Base").Preload("Quotes.Quote").
		Preload("Locations").Preload("Owner").
		Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getCurrencyPairBySlug(c echo.Context) error {
	var rec domain.CurrencyPair
	err := GetDB(c).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("slot_no") }).
		Preload("Quotes.Base").Preload("Quotes.Quote").
		Preload("Locations").
		Where("slug = ?", c.Param("slug")).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createCurrencyPair(c echo.Context) error {
	var payload currencyPairPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := checkCurrencyRefs(GetDB(c), payload.Quotes); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "quotes")
	}

	locs, err := resolveLocations(GetDB(c), payload.LocationIDs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "location_ids")
	}

	rec := domain.CurrencyPair{Locations: locs}
	payload.apply(&rec.OfferCommon)
	if err := enforceOwner(c, &rec.OfferCommon); err != nil {
		return failForbidden(c)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := createOffer(tx, &rec, &rec.OfferCommon); err != nil {
			return err
		}
		rec.Quotes = buildCurrencyQuotes(rec.ID, payload.Quotes)
		return tx.Create(&rec.Quotes).Error
	})
	if err != nil {
		return failCreate(c, "Offer", err)
	}
	return ok(c, rec)
}

func updateCurrencyPair(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var rec domain.CurrencyPair
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}

	var payload currencyPairPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := checkCurrencyRefs(GetDB(c), payload.Quotes); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "quotes")
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
	rec.Quotes = nil

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		if err := tx.Where("pair_id = ?", rec.ID).Delete(&domain.CurrencyQuote{}).Error; err != nil {
			return err
		}
		rec.Quotes = buildCurrencyQuotes(rec.ID, payload.Quotes)
		if err := tx.Create(&rec.Quotes).Error; err != nil {
			return err
		}
		return tx.Model(&rec).Association("Locations").Replace(locs)
	})
	if err != nil {
		return failCreate(c, "Offer", err)
	}
	return ok(c, rec)
}

func deleteCurrencyPair(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.CurrencyPair
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
