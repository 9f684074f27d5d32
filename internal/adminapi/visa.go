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

type visaOptionPayload struct {
	VarietyID  int64  `json:"variety_id,string" validate:"required"`
	ValidityID int64  `json:"validity_id,string" validate:"required"`
	Price      int64  `json:"price" validate:"min=0"`
	Note       string `json:"note" validate:"omitempty,max=256"`
}

type visaPayload struct {
	offerPayload
	Photo   string              `json:"photo" validate:"omitempty,max=256"`
	Options []visaOptionPayload `json:"options" validate:"required,min=1,max=8,dive"`
}

func registerVisaRoutes() {
	webserver.ApiGET("/offers/visa", listVisa)
	webserver.ApiGET("/offers/visa/:id", getVisa)
	webserver.ApiGET("/offers/visa/slug/:slug", getVisaBySlug)
	webserver.ApiPOST("/offers/visa", createVisa)
	webserver.ApiPUT("/offers/visa/:id", updateVisa)
	webserver.ApiDELETE("/offers/visa/:id", deleteVisa)
}

// checkVisaRefs validates that every variety and validity named by the
// option rows exists before anything is written.
func checkVisaRefs(db *gorm.DB, options []visaOptionPayload) error {
	for _, opt := range options {
		var count int64
		db.Model(&domain.VisaVariety{}).Where("id = ?", opt.VarietyID).Count(&count)
		if count == 0 {
			return errors.New("visa variety does not exist")
		}
		db.Model(&domain.VisaValidity{}).Where("id = ?", opt.ValidityID).Count(&count)
		if count == 0 {
			return errors.New("visa validity does not exist")
		}
	}
	return nil
}

// buildVisaOptions assigns slot numbers from payload array order
func buildVisaOptions(visaID int64, options []visaOptionPayload) []domain.VisaOption {
	rows := make([]domain.VisaOption, 0, len(options))
	for i, opt := range options {
		rows = append(rows, domain.VisaOption{
			VisaID:     visaID,
			SlotNo:     i + 1,
			VarietyID:  opt.VarietyID,
			ValidityID: opt.ValidityID,
			Price:      opt.Price,
			Note:       strings.TrimSpace(opt.Note),
		})
	}
	return rows
}

func listVisa(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := applyOfferFilters(c, GetDB(c).Model(&domain.Visa{}))

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query visa offers", err.Error())
	}

	var rows []domain.Visa
	order := offerSortColumn(c) + " " + offerSortOrder(c)
	err := db.Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("slot_no") }).
		Order(order).Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query visa offers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getVisa(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Visa
	err = GetDB(c).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("slot_no") }).
		Preload("Options.Variety").Preload("Options.Validity").
		Preload("Locations").Preload("Owner").
		Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func getVisaBySlug(c echo.Context) error {
	var rec domain.Visa
	err := GetDB(c).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("slot_no") }).
		Preload("Options.Variety").Preload("Options.Validity").
		Preload("Locations").
		Where("slug = ?", c.Param("slug")).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	return ok(c, rec)
}

func createVisa(c echo.Context) error {
	var payload visaPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := checkVisaRefs(GetDB(c), payload.Options); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "options")
	}

	locs, err := resolveLocations(GetDB(c), payload.LocationIDs)
	if err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "location_ids")
	}

	rec := domain.Visa{
		Photo:     strings.TrimSpace(payload.Photo),
		Locations: locs,
	}
	payload.apply(&rec.OfferCommon)
	if err := enforceOwner(c, &rec.OfferCommon); err != nil {
		return failForbidden(c)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := createOffer(tx, &rec, &rec.OfferCommon); err != nil {
			return err
		}
		rec.Options = buildVisaOptions(rec.ID, payload.Options)
		return tx.Create(&rec.Options).Error
	})
	if err != nil {
		return failCreate(c, "Offer", err)
	}
	return ok(c, rec)
}

func updateVisa(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var rec domain.Visa
	if err := GetDB(c).Where("id = ?", id).First(&rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offer", err.Error())
	}
	if !canMutate(c, rec.OwnerID) {
		return failForbidden(c)
	}

	var payload visaPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse offer parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := checkVisaRefs(GetDB(c), payload.Options); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "options")
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
	rec.Photo = strings.TrimSpace(payload.Photo)
	rec.Options = nil

	// option rows are replaced wholesale so slot order always mirrors
	// the payload array
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		if err := tx.Where("visa_id = ?", rec.ID).Delete(&domain.VisaOption{}).Error; err != nil {
			return err
		}
		rec.Options = buildVisaOptions(rec.ID, payload.Options)
		if err := tx.Create(&rec.Options).Error; err != nil {
			return err
		}
		return tx.Model(&rec).Association("Locations").Replace(locs)
	})
	if err != nil {
		return failCreate(c, "Offer", err)
	}
	return ok(c, rec)
}

func deleteVisa(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}
	var rec domain.Visa
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
