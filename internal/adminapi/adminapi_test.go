package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/baliboard/baliboard/config"
	"github.com/baliboard/baliboard/internal/app"
	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/internal/webserver"
	"github.com/baliboard/baliboard/pkg/common"
)

var (
	testApp    *app.Application
	testEngine *echo.Echo
	adminToken string
	userToken  string
	testUserID int64
)

func TestMain(m *testing.M) {
	cfg := config.DefaultAppConfig
	cfg.Database.Type = "sqlite"

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	testApp = app.NewApplication(cfg)
	testApp.OverrideDB(db)
	if err := testApp.MigrateDB(false); err != nil {
		panic(err)
	}

	seedAccounts(db)

	srv := webserver.Init(testApp)
	InitRouter()
	testEngine = srv.Engine()

	adminToken = login("admin", "secret-admin")
	userToken = login("seller", "secret-seller")

	os.Exit(m.Run())
}

func seedAccounts(db *gorm.DB) {
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("secret-admin"), bcrypt.MinCost)
	userHash, _ := bcrypt.GenerateFromPassword([]byte("secret-seller"), bcrypt.MinCost)
	admin := domain.Account{
		ID: common.UUIDint64(), Username: "admin", Password: string(adminHash),
		Level: "super", Status: common.ENABLED,
	}
	user := domain.Account{
		ID: common.UUIDint64(), Username: "seller", Password: string(userHash),
		Level: "user", Status: common.ENABLED,
	}
	db.Create(&admin)
	db.Create(&user)
	testUserID = user.ID
}

func login(username, password string) string {
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	testEngine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		panic("login failed: " + rec.Body.String())
	}
	var result struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &result)
	return result.Token
}

func doRequest(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	testEngine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthRequired(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/api/v1/ref/locations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/v1/ref/locations", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	body := `{"username":"admin","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	testEngine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLookupCrudWithAutoSlug(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/ref/locations", adminToken,
		`{"label":"Canggu Beach"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, "canggu-beach", created["slug"])
	id := created["id"].(string)

	// slug conflict on a second row with the same label
	rec = doRequest(t, http.MethodPost, "/api/v1/ref/locations", adminToken,
		`{"label":"Canggu   Beach"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/v1/ref/locations/slug/canggu-beach", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Canggu Beach", decodeBody(t, rec)["label"])

	rec = doRequest(t, http.MethodPut, "/api/v1/ref/locations/"+id, adminToken,
		`{"label":"Canggu","slug":"canggu"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "canggu", decodeBody(t, rec)["slug"])

	rec = doRequest(t, http.MethodDelete, "/api/v1/ref/locations/"+id, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/v1/ref/locations/"+id, adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLookupDeleteRefusedWhileInUse(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/ref/service-kinds", adminToken,
		`{"label":"Guitar lessons"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	kindID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, http.MethodPost, "/api/v1/offers/services", adminToken, fmt.Sprintf(
		`{"name":"Guitar teacher","price":150000,"description":"Lessons at your villa",
		  "kind_id":%q,"unit":"hour","home_visit":true}`, kindID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	offerID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, http.MethodDelete, "/api/v1/ref/service-kinds/"+kindID, adminToken, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "LOOKUP_IN_USE", decodeBody(t, rec)["code"])

	rec = doRequest(t, http.MethodDelete, "/api/v1/offers/services/"+offerID, adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodDelete, "/api/v1/ref/service-kinds/"+kindID, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLookupDeleteFailsWhenRefCheckErrors(t *testing.T) {
	loc := domain.Location{}
	loc.Label = "Uluwatu"
	loc.Slug = "uluwatu"
	require.NoError(t, testApp.DB().Create(&loc).Error)

	// a reference check that cannot run must block the delete
	def := &lookupDef{
		path: "locations", title: "Location",
		newRecord: func() lookupRecord { return &domain.Location{} },
		newList:   func() interface{} { return &[]domain.Location{} },
		refs:      []lookupRef{{table: "no_such_table", column: "location_id"}},
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	res := httptest.NewRecorder()
	c := e.NewContext(req, res)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", loc.ID))
	c.Set(webserver.ContextKeyApp, testApp)

	require.NoError(t, deleteLookup(c, def))
	assert.Equal(t, http.StatusInternalServerError, res.Code)

	var count int64
	testApp.DB().Model(&domain.Location{}).Where("id = ?", loc.ID).Count(&count)
	assert.Equal(t, int64(1), count, "row must survive a failed reference check")
	testApp.DB().Delete(&domain.Location{}, loc.ID)
}

func TestDuplicateLocationIDsCollapse(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/ref/locations", adminToken, `{"label":"Sanur"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	locID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, http.MethodPost, "/api/v1/offers/work", adminToken, fmt.Sprintf(
		`{"name":"Pool cleaner","price":500000,"description":"Twice a week",
		  "vacancy":"cleaner","period":"month","location_ids":[%q,%q]}`, locID, locID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, http.MethodGet, "/api/v1/offers/work/"+id, adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	locs := decodeBody(t, rec)["locations"].([]interface{})
	assert.Len(t, locs, 1)
}

func TestRealEstateLifecycle(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/ref/locations", adminToken, `{"label":"Ubud"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	locID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, http.MethodPost, "/api/v1/offers/realestate", adminToken, fmt.Sprintf(
		`{"name":"Villa with pool","price":2500000,"description":"Two floors, garden",
		  "rooms":3,"floor":1,"max_floor":2,"sleepers":4,"kitchen":true,"wifi":true,
		  "location_ids":[%q]}`, locID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	id := created["id"].(string)
	slug := created["slug"].(string)
	assert.Len(t, slug, 20)

	rec = doRequest(t, http.MethodGet, "/api/v1/offers/realestate/slug/"+slug, adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody(t, rec)
	assert.Equal(t, "Villa with pool", fetched["name"])
	locs := fetched["locations"].([]interface{})
	require.Len(t, locs, 1)

	rec = doRequest(t, http.MethodPut, "/api/v1/offers/realestate/"+id, adminToken,
		`{"name":"Villa with pool","price":2000000,"description":"Price drop",
		  "rooms":3,"floor":1,"max_floor":2,"sleepers":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)
	assert.Equal(t, slug, updated["slug"], "empty payload slug keeps the existing one")

	rec = doRequest(t, http.MethodGet, "/api/v1/offers/realestate?q=villa", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)
	assert.GreaterOrEqual(t, int(list["total"].(float64)), 1)

	rec = doRequest(t, http.MethodDelete, "/api/v1/offers/realestate/"+id, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOfferValidation(t *testing.T) {
	// missing description
	rec := doRequest(t, http.MethodPost, "/api/v1/offers/work", adminToken,
		`{"name":"Cook","price":100,"vacancy":"cook","period":"month"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// negative price
	rec = doRequest(t, http.MethodPost, "/api/v1/offers/work", adminToken,
		`{"name":"Cook","price":-5,"description":"x","vacancy":"cook","period":"month"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// bad enum value
	rec = doRequest(t, http.MethodPost, "/api/v1/offers/work", adminToken,
		`{"name":"Cook","price":100,"description":"x","vacancy":"cook","period":"weekly"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserOwnershipEnforced(t *testing.T) {
	// a user-level operator's offer is pinned to their own account
	rec := doRequest(t, http.MethodPost, "/api/v1/offers/work", userToken,
		`{"name":"Driver wanted","price":3000000,"description":"Full time driver",
		  "vacancy":"driver","period":"month","full_time":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	userOfferID := created["id"].(string)
	assert.Equal(t, fmt.Sprintf("%d", testUserID), created["owner_id"])

	// an admin-created offer belongs to nobody unless assigned
	rec = doRequest(t, http.MethodPost, "/api/v1/offers/work", adminToken,
		`{"name":"Barista","price":2500000,"description":"Morning shifts",
		  "vacancy":"barista","period":"month"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	adminOfferID := decodeBody(t, rec)["id"].(string)

	// the user may not touch the admin's offer
	rec = doRequest(t, http.MethodDelete, "/api/v1/offers/work/"+adminOfferID, userToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// but may delete their own, and the admin may delete anything
	rec = doRequest(t, http.MethodDelete, "/api/v1/offers/work/"+userOfferID, userToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, http.MethodDelete, "/api/v1/offers/work/"+adminOfferID, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOwnerSurvivesUpdate(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/offers/work", userToken,
		`{"name":"Gardener","price":2000000,"description":"Weekly garden care",
		  "vacancy":"gardener","period":"month"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["id"].(string)

	// an update that does not resend owner_id keeps ownership intact
	rec = doRequest(t, http.MethodPut, "/api/v1/offers/work/"+id, userToken,
		`{"name":"Gardener","price":2200000,"description":"Weekly garden care",
		  "vacancy":"gardener","period":"month"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, fmt.Sprintf("%d", testUserID), decodeBody(t, rec)["owner_id"])

	rec = doRequest(t, http.MethodGet, "/api/v1/offers/work/"+id, userToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fmt.Sprintf("%d", testUserID), decodeBody(t, rec)["owner_id"])

	// a user-level operator may not hand the offer to another account
	rec = doRequest(t, http.MethodPut, "/api/v1/offers/work/"+id, userToken,
		`{"name":"Gardener","price":2200000,"description":"Weekly garden care",
		  "vacancy":"gardener","period":"month","owner_id":"12345"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the owner is still able to delete after their own update
	rec = doRequest(t, http.MethodDelete, "/api/v1/offers/work/"+id, userToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVisaOptionsReplace(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/ref/visa-varieties", adminToken, `{"label":"Tourist"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	varietyID := decodeBody(t, rec)["id"].(string)
	rec = doRequest(t, http.MethodPost, "/api/v1/ref/visa-validities", adminToken, `{"label":"30 days"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	validityID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, http.MethodPost, "/api/v1/offers/visa", adminToken, fmt.Sprintf(
		`{"name":"Visa agency","price":0,"description":"Extensions and social visas",
		  "options":[
		    {"variety_id":%q,"validity_id":%q,"price":1500000},
		    {"variety_id":%q,"validity_id":%q,"price":2500000,"note":"extension"}
		  ]}`, varietyID, validityID, varietyID, validityID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	id := created["id"].(string)
	options := created["options"].([]interface{})
	require.Len(t, options, 2)
	assert.Equal(t, float64(1), options[0].(map[string]interface{})["slot_no"])

	// update replaces the option set wholesale in payload order
	rec = doRequest(t, http.MethodPut, "/api/v1/offers/visa/"+id, adminToken, fmt.Sprintf(
		`{"name":"Visa agency","price":0,"description":"Extensions and social visas",
		  "options":[{"variety_id":%q,"validity_id":%q,"price":2000000}]}`, varietyID, validityID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, http.MethodGet, "/api/v1/offers/visa/"+id, adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody(t, rec)
	options = fetched["options"].([]interface{})
	require.Len(t, options, 1)
	assert.Equal(t, float64(2000000), options[0].(map[string]interface{})["price"])

	// an empty option set is rejected
	rec = doRequest(t, http.MethodPut, "/api/v1/offers/visa/"+id, adminToken,
		`{"name":"Visa agency","price":0,"description":"x","options":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrencyPairQuotes(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/ref/currency-names", adminToken, `{"label":"USD"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	usdID := decodeBody(t, rec)["id"].(string)
	rec = doRequest(t, http.MethodPost, "/api/v1/ref/currency-names", adminToken, `{"label":"IDR"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	idrID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, http.MethodPost, "/api/v1/offers/currency", adminToken, fmt.Sprintf(
		`{"name":"Money changer Kuta","price":0,"description":"Best rates",
		  "quotes":[{"base_id":%q,"quote_id":%q,"buy_rate":16250.5,"sell_rate":16100}]}`,
		usdID, idrID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	quotes := created["quotes"].([]interface{})
	require.Len(t, quotes, 1)
	assert.Equal(t, 16250.5, quotes[0].(map[string]interface{})["buy_rate"])

	// a referenced currency cannot be removed
	rec = doRequest(t, http.MethodDelete, "/api/v1/ref/currency-names/"+usdID, adminToken, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAccountAdminOnly(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/api/v1/accounts", userToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, http.MethodPost, "/api/v1/accounts", adminToken,
		`{"username":"manager","password":"secret-pass","level":"admin","status":"enabled"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decodeBody(t, rec)["id"].(string)

	// duplicate username
	rec = doRequest(t, http.MethodPost, "/api/v1/accounts", adminToken,
		`{"username":"manager","password":"secret-pass","level":"admin","status":"enabled"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, http.MethodDelete, "/api/v1/accounts/"+id, adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLookupExportCsv(t *testing.T) {
	rec := doRequest(t, http.MethodPost, "/api/v1/ref/event-themes", adminToken, `{"label":"Yoga"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodGet, "/api/v1/export/ref/event-themes", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Contains(t, rec.Body.String(), "yoga")

	rec = doRequest(t, http.MethodGet, "/api/v1/export/ref/no-such-table", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
