package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
)

// offerPayload is the shared part of every category payload. The same
// payload shape serves create and update (full replace).
type offerPayload struct {
	Name        string   `json:"name" validate:"required,min=1,max=128"`
	Price       int64    `json:"price" validate:"min=0"`
	OwnerID     *int64   `json:"owner_id,string" validate:"omitempty"`
	Description string   `json:"description" validate:"required,min=1,max=2048"`
	IsPublic    *bool    `json:"is_public"`
	Priority    bool     `json:"priority"`
	Slug        string   `json:"slug" validate:"omitempty,min=1,max=64"`
	LocationIDs []string `json:"location_ids" validate:"omitempty,max=16,dive,number"`
}

func (p *offerPayload) apply(oc *domain.OfferCommon) {
	oc.Name = strings.TrimSpace(p.Name)
	oc.Price = p.Price
	oc.OwnerID = p.OwnerID
	oc.Description = strings.TrimSpace(p.Description)
	if p.IsPublic != nil {
		oc.IsPublic = *p.IsPublic
	} else {
		oc.IsPublic = true
	}
	oc.Priority = p.Priority
	oc.Slug = strings.TrimSpace(p.Slug)
}

// resolveLocations loads the Location rows named by the payload
func resolveLocations(db *gorm.DB, ids []string) ([]domain.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parsed := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, s := range ids {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.New("invalid location id: " + s)
		}
		// repeated ids collapse to one join row
		if seen[id] {
			continue
		}
		seen[id] = true
		parsed = append(parsed, id)
	}
	var locs []domain.Location
	if err := db.Where("id IN ?", parsed).Find(&locs).Error; err != nil {
		return nil, err
	}
	if len(locs) != len(parsed) {
		return nil, errors.New("one or more locations do not exist")
	}
	return locs, nil
}

// enforceOwner pins a user-level operator's new offers to their own
// account; administrators may assign any owner.
func enforceOwner(c echo.Context, oc *domain.OfferCommon) error {
	level := webserver.OperatorLevel(c)
	if level == "super" || level == "admin" {
		return nil
	}
	uid := webserver.OperatorID(c)
	if oc.OwnerID != nil && *oc.OwnerID != uid {
		return errors.New("owner mismatch")
	}
	oc.OwnerID = &uid
	return nil
}

// applyOwnerOnUpdate keeps the stored owner across updates: omitting
// owner_id never clears ownership and only an administrator may
// reassign an offer to another account.
func applyOwnerOnUpdate(c echo.Context, oc *domain.OfferCommon, stored, requested *int64) error {
	level := webserver.OperatorLevel(c)
	if level == "super" || level == "admin" {
		if requested != nil {
			oc.OwnerID = requested
		} else {
			oc.OwnerID = stored
		}
		return nil
	}
	if requested != nil && (stored == nil || *requested != *stored) {
		return errors.New("owner reassignment requires administrator access")
	}
	oc.OwnerID = stored
	return nil
}

// canMutate enforces the offer lifecycle rule: only an administrator
// or the owning account may change or delete an offer.
func canMutate(c echo.Context, ownerID *int64) bool {
	level := webserver.OperatorLevel(c)
	if level == "super" || level == "admin" {
		return true
	}
	return ownerID != nil && *ownerID == webserver.OperatorID(c)
}

// createOffer inserts rec; when the slug was auto-generated a unique
// violation is retried once with a freshly generated value, an
// explicitly supplied slug conflict is surfaced to the caller.
func createOffer(db *gorm.DB, rec interface{}, oc *domain.OfferCommon) error {
	autoSlug := oc.Slug == ""
	err := db.Create(rec).Error
	if err != nil && autoSlug && errors.Is(err, gorm.ErrDuplicatedKey) {
		oc.Slug = ""
		err = db.Create(rec).Error
	}
	return err
}

// offerSortColumn whitelists sortable columns shared by all categories
func offerSortColumn(c echo.Context, extra ...string) string {
	allowed := map[string]bool{
		"id": true, "name": true, "price": true, "priority": true,
		"created_at": true, "updated_at": true,
	}
	for _, col := range extra {
		allowed[col] = true
	}
	col := strings.TrimSpace(c.QueryParam("sort"))
	if !allowed[col] {
		return "id"
	}
	return col
}

func offerSortOrder(c echo.Context) string {
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return order
}

// applyOfferFilters narrows a category list query by the common
// consumer filters: visibility, owner, priority and free text.
func applyOfferFilters(c echo.Context, db *gorm.DB) *gorm.DB {
	if v := c.QueryParam("is_public"); v != "" {
		db = db.Where("is_public = ?", v == "true" || v == "1")
	}
	if v := c.QueryParam("priority"); v != "" {
		db = db.Where("priority = ?", v == "true" || v == "1")
	}
	if v := c.QueryParam("owner_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			db = db.Where("owner_id = ?", id)
		}
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR description ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			q = strings.ToLower(q)
			db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", "%"+q+"%", "%"+q+"%")
		}
	}
	return db
}

// applyFKFilter narrows by a lookup foreign key query param
func applyFKFilter(c echo.Context, db *gorm.DB, param, column string) *gorm.DB {
	if v := c.QueryParam(param); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			db = db.Where(column+" = ?", id)
		}
	}
	return db
}

func failForbidden(c echo.Context) error {
	return fail(c, http.StatusForbidden, "FORBIDDEN", "Only the owner or an administrator may modify this offer", nil)
}

func failCreate(c echo.Context, what string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fail(c, http.StatusConflict, "SLUG_CONFLICT", what+" slug already exists", nil)
	}
	if errors.Is(err, domain.ErrNegativePrice) {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price must be non-negative", nil)
	}
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save "+what, err.Error())
}
