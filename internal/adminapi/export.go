package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
)

type lookupCsvRow struct {
	ID    string `csv:"id"`
	Label string `csv:"label"`
	Slug  string `csv:"slug"`
}

type realEstateCsvRow struct {
	ID       string `csv:"id"`
	Name     string `csv:"name"`
	Slug     string `csv:"slug"`
	Price    int64  `csv:"price"`
	Rooms    int    `csv:"rooms"`
	Floor    int    `csv:"floor"`
	MaxFloor int    `csv:"max_floor"`
	Sleepers int    `csv:"sleepers"`
	IsPublic bool   `csv:"is_public"`
	Created  string `csv:"created_at"`
}

func registerExportRoutes() {
	webserver.ApiGET("/export/ref/:name", exportLookup)
	webserver.ApiGET("/export/offers/realestate", exportRealEstate)
}

func writeCsv(c echo.Context, filename string, rows interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(rows, c.Response())
}

// exportLookup streams one reference table as CSV, selected by its
// admin path name (locations, transport-marks, ...).
func exportLookup(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	var def *lookupDef
	for i := range lookupRegistry {
		if lookupRegistry[i].path == name {
			def = &lookupRegistry[i]
			break
		}
	}
	if def == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unknown reference table", name)
	}

	list := def.newList()
	if err := GetDB(c).Model(def.newRecord()).Order("label ASC").Find(list).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+def.path, err.Error())
	}

	rows := lookupCsvRows(list)
	return writeCsv(c, name+".csv", rows)
}

// lookupCsvRows flattens any of the typed lookup slices
func lookupCsvRows(list interface{}) []lookupCsvRow {
	var rows []lookupCsvRow
	appendRow := func(r lookupRecord) {
		rows = append(rows, lookupCsvRow{
			ID:    strconv.FormatInt(r.GetID(), 10),
			Label: r.GetLabel(),
			Slug:  r.GetSlug(),
		})
	}
	switch v := list.(type) {
	case *[]domain.Location:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	case *[]domain.TransportMark:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	case *[]domain.TransportModel:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	case *[]domain.EventTheme:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	case *[]domain.VisaVariety:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	case *[]domain.VisaValidity:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	case *[]domain.ServiceKind:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	case *[]domain.CurrencyName:
		for i := range *v {
			appendRow(&(*v)[i])
		}
	}
	return rows
}

func exportRealEstate(c echo.Context) error {
	db := applyOfferFilters(c, GetDB(c).Model(&domain.RealEstate{}))

	var recs []domain.RealEstate
	if err := db.Order("created_at DESC").Find(&recs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query real estate offers", err.Error())
	}

	rows := make([]realEstateCsvRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, realEstateCsvRow{
			ID:       strconv.FormatInt(r.ID, 10),
			Name:     r.Name,
			Slug:     r.Slug,
			Price:    r.Price,
			Rooms:    r.Rooms,
			Floor:    r.Floor,
			MaxFloor: r.MaxFloor,
			Sleepers: r.Sleepers,
			IsPublic: r.IsPublic,
			Created:  r.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCsv(c, "realestate.csv", rows)
}
