package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
	"github.com/baliboard/baliboard/pkg/common"
)

// lookupRecord is the shared behaviour of every reference table row,
// promoted from domain.RefLabel.
type lookupRecord interface {
	GetID() int64
	GetLabel() string
	GetSlug() string
	SetLabel(string)
	SetSlug(string)
}

// lookupRef names an offer table column referencing a lookup row,
// used for the restrict-on-delete pre-check.
type lookupRef struct {
	table  string
	column string
}

// lookupDef describes one reference table: its admin path, the source
// field slugs are auto-derived from, and the referencing columns.
type lookupDef struct {
	path      string
	title     string
	source    string
	newRecord func() lookupRecord
	newList   func() interface{}
	refs      []lookupRef
}

// locationJoinTables lists every per-category location join table
var locationJoinTables = []string{
	"estate_locations", "transport_locations", "work_locations",
	"service_locations", "buysell_locations", "food_locations",
	"taxi_locations", "trip_locations", "event_locations",
	"visa_locations", "currency_locations",
}

func locationRefs() []lookupRef {
	refs := make([]lookupRef, 0, len(locationJoinTables))
	for _, t := range locationJoinTables {
		refs = append(refs, lookupRef{table: t, column: "location_id"})
	}
	return refs
}

// lookupRegistry is the per-entity auto-slug configuration table:
// every reference entity, its admin path and slug source field.
var lookupRegistry = []lookupDef{
	{
		path: "locations", title: "Location", source: "label",
		newRecord: func() lookupRecord { return &domain.Location{} },
		newList:   func() interface{} { return &[]domain.Location{} },
		refs:      locationRefs(),
	},
	{
		path: "transport-marks", title: "Transport mark", source: "label",
		newRecord: func() lookupRecord { return &domain.TransportMark{} },
		newList:   func() interface{} { return &[]domain.TransportMark{} },
		refs:      []lookupRef{{table: "offer_transport", column: "mark_id"}},
	},
	{
		path: "transport-models", title: "Transport model", source: "label",
		newRecord: func() lookupRecord { return &domain.TransportModel{} },
		newList:   func() interface{} { return &[]domain.TransportModel{} },
		refs:      []lookupRef{{table: "offer_transport", column: "model_id"}},
	},
	{
		path: "event-themes", title: "Event theme", source: "label",
		newRecord: func() lookupRecord { return &domain.EventTheme{} },
		newList:   func() interface{} { return &[]domain.EventTheme{} },
		refs:      []lookupRef{{table: "offer_event_poster", column: "theme_id"}},
	},
	{
		path: "visa-varieties", title: "Visa variety", source: "label",
		newRecord: func() lookupRecord { return &domain.VisaVariety{} },
		newList:   func() interface{} { return &[]domain.VisaVariety{} },
		refs:      []lookupRef{{table: "offer_visa_option", column: "variety_id"}},
	},
	{
		path: "visa-validities", title: "Visa validity", source: "label",
		newRecord: func() lookupRecord { return &domain.VisaValidity{} },
		newList:   func() interface{} { return &[]domain.VisaValidity{} },
		refs:      []lookupRef{{table: "offer_visa_option", column: "validity_id"}},
	},
	{
		path: "service-kinds", title: "Service kind", source: "label",
		newRecord: func() lookupRecord { return &domain.ServiceKind{} },
		newList:   func() interface{} { return &[]domain.ServiceKind{} },
		refs:      []lookupRef{{table: "offer_service", column: "kind_id"}},
	},
	{
		path: "currency-names", title: "Currency", source: "label",
		newRecord: func() lookupRecord { return &domain.CurrencyName{} },
		newList:   func() interface{} { return &[]domain.CurrencyName{} },
		refs: []lookupRef{
			{table: "offer_currency_quote", column: "base_id"},
			{table: "offer_currency_quote", column: "quote_id"},
		},
	},
}

type lookupPayload struct {
	Label string `json:"label" validate:"required,min=1,max=64"`
	Slug  string `json:"slug" validate:"omitempty,min=1,max=80"`
}

// registerLookupRoutes registers CRUD endpoints for every reference table
func registerLookupRoutes() {
	for i := range lookupRegistry {
		def := lookupRegistry[i]
		base := "/ref/" + def.path
		webserver.ApiGET(base, func(c echo.Context) error { return listLookup(c, &def) })
		webserver.ApiGET(base+"/:id", func(c echo.Context) error { return getLookup(c, &def) })
		webserver.ApiGET(base+"/slug/:slug", func(c echo.Context) error { return getLookupBySlug(c, &def) })
		webserver.ApiPOST(base, func(c echo.Context) error { return createLookup(c, &def) })
		webserver.ApiPUT(base+"/:id", func(c echo.Context) error { return updateLookup(c, &def) })
		webserver.ApiDELETE(base+"/:id", func(c echo.Context) error { return deleteLookup(c, &def) })
	}
}

func listLookup(c echo.Context, def *lookupDef) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(def.newRecord())
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("label ILIKE ? OR slug ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			q = strings.ToLower(q)
			db = db.Where("LOWER(label) LIKE ? OR LOWER(slug) LIKE ?", "%"+q+"%", "%"+q+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.path, err.Error())
	}

	rows := def.newList()
	if err := db.Order("label ASC").Offset((page - 1) * perPage).Limit(perPage).Find(rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.path, err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getLookup(c echo.Context, def *lookupDef) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+def.title+" ID", nil)
	}
	rec := def.newRecord()
	if err := GetDB(c).Where("id = ?", id).First(rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", def.title+" not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.title, err.Error())
	}
	return ok(c, rec)
}

func getLookupBySlug(c echo.Context, def *lookupDef) error {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Slug is required", nil)
	}
	rec := def.newRecord()
	if err := GetDB(c).Where("slug = ?", slug).First(rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", def.title+" not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.title, err.Error())
	}
	return ok(c, rec)
}

func createLookup(c echo.Context, def *lookupDef) error {
	var payload lookupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse "+def.title+" parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	rec := def.newRecord()
	rec.SetLabel(strings.TrimSpace(payload.Label))
	// auto-slug from the source field unless explicitly overridden;
	// the unique index on slug stays the authority
	if payload.Slug != "" {
		rec.SetSlug(strings.TrimSpace(payload.Slug))
	} else {
		rec.SetSlug(common.Slugify(rec.GetLabel()))
	}
	if rec.GetSlug() == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Slug cannot be derived from an empty "+def.source, nil)
	}

	if err := GetDB(c).Create(rec).Error; errors.Is(err, gorm.ErrDuplicatedKey) {
		return fail(c, http.StatusConflict, "SLUG_CONFLICT", def.title+" slug already exists", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create "+def.title, err.Error())
	}
	return ok(c, rec)
}

func updateLookup(c echo.Context, def *lookupDef) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+def.title+" ID", nil)
	}

	var payload lookupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse "+def.title+" parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	rec := def.newRecord()
	if err := GetDB(c).Where("id = ?", id).First(rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", def.title+" not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.title, err.Error())
	}

	rec.SetLabel(strings.TrimSpace(payload.Label))
	if payload.Slug != "" {
		rec.SetSlug(strings.TrimSpace(payload.Slug))
	} else if rec.GetSlug() == "" {
		rec.SetSlug(common.Slugify(rec.GetLabel()))
	}

	if err := GetDB(c).Save(rec).Error; errors.Is(err, gorm.ErrDuplicatedKey) {
		return fail(c, http.StatusConflict, "SLUG_CONFLICT", def.title+" slug already exists", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update "+def.title, err.Error())
	}
	return ok(c, rec)
}

func deleteLookup(c echo.Context, def *lookupDef) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+def.title+" ID", nil)
	}

	rec := def.newRecord()
	if err := GetDB(c).Where("id = ?", id).First(rec).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", def.title+" not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.title, err.Error())
	}

	// refuse deletion while any offer still references the row; the
	// RESTRICT constraint backs this up at the database level
	for _, ref := range def.refs {
		var count int64
		if err := GetDB(c).Table(ref.table).Where(ref.column+" = ?", id).Count(&count).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check "+def.title+" references", err.Error())
		}
		if count > 0 {
			return fail(c, http.StatusConflict, "LOOKUP_IN_USE",
				def.title+" is referenced by existing offers and cannot be deleted",
				map[string]interface{}{"table": ref.table, "count": count})
		}
	}

	if err := GetDB(c).Delete(rec).Error; err != nil {
		return fail(c, http.StatusConflict, "LOOKUP_IN_USE", def.title+" is still referenced", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
