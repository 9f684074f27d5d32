package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/baliboard/baliboard/pkg/common"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(Tables...))
	return db
}

// createWithSlugRetry mirrors the admin layer's behaviour for
// auto-generated slugs: a unique violation on the timestamp slug is
// retried with a fresh value.
func createWithSlugRetry(db *gorm.DB, rec interface{}, oc *OfferCommon) error {
	err := db.Create(rec).Error
	for i := 0; i < 3 && errors.Is(err, gorm.ErrDuplicatedKey); i++ {
		oc.Slug = ""
		err = db.Create(rec).Error
	}
	return err
}

func TestOfferSlugAutoGenerated(t *testing.T) {
	db := testDB(t)

	rec := Work{OfferCommon: OfferCommon{Name: "Waiter wanted", Price: 120}, Period: PeriodMonth}
	require.NoError(t, db.Create(&rec).Error)

	assert.NotZero(t, rec.ID)
	assert.Len(t, rec.Slug, 20)
	for _, r := range rec.Slug {
		assert.True(t, r >= '0' && r <= '9', "timestamp slug must be all digits")
	}
}

func TestOfferSlugExplicitPreserved(t *testing.T) {
	db := testDB(t)

	rec := Work{OfferCommon: OfferCommon{Name: "Cook", Slug: "cook-in-ubud"}, Period: PeriodMonth}
	require.NoError(t, db.Create(&rec).Error)
	assert.Equal(t, "cook-in-ubud", rec.Slug)

	dup := Work{OfferCommon: OfferCommon{Name: "Another cook", Slug: "cook-in-ubud"}, Period: PeriodMonth}
	err := db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOfferSlugsDistinctUnderLoad(t *testing.T) {
	db := testDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		rec := Work{OfferCommon: OfferCommon{Name: "bulk"}, Period: PeriodDay}
		require.NoError(t, createWithSlugRetry(db, &rec, &rec.OfferCommon))
		assert.False(t, seen[rec.Slug], "slug %s repeated", rec.Slug)
		seen[rec.Slug] = true
	}
}

func TestOfferNegativePriceRejected(t *testing.T) {
	db := testDB(t)

	rec := Work{OfferCommon: OfferCommon{Name: "bad", Price: -1}, Period: PeriodDay}
	err := db.Create(&rec).Error
	assert.ErrorIs(t, err, ErrNegativePrice)

	ok := Work{OfferCommon: OfferCommon{Name: "good", Price: 0}, Period: PeriodDay}
	require.NoError(t, db.Create(&ok).Error)
	ok.Price = -5
	assert.ErrorIs(t, db.Save(&ok).Error, ErrNegativePrice)
}

func TestOfferTimestamps(t *testing.T) {
	db := testDB(t)

	rec := Work{OfferCommon: OfferCommon{Name: "ts"}, Period: PeriodDay}
	require.NoError(t, db.Create(&rec).Error)
	created := rec.CreatedAt

	time.Sleep(5 * time.Millisecond)
	rec.Name = "ts2"
	require.NoError(t, db.Save(&rec).Error)

	var reread Work
	require.NoError(t, db.First(&reread, rec.ID).Error)
	assert.Equal(t, created.Unix(), reread.CreatedAt.Unix())
	assert.False(t, reread.UpdatedAt.Before(reread.CreatedAt))
}

func TestLookupSlugUnique(t *testing.T) {
	db := testDB(t)

	loc := Location{RefLabel: RefLabel{Label: "Canggu", Slug: "canggu"}}
	require.NoError(t, db.Create(&loc).Error)

	dup := Location{RefLabel: RefLabel{Label: "Canggu 2", Slug: "canggu"}}
	assert.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)
}

func TestTransportLookupRestrictedWhileReferenced(t *testing.T) {
	db := testDB(t)

	mark := TransportMark{RefLabel: RefLabel{Label: "Honda", Slug: "honda"}}
	model := TransportModel{RefLabel: RefLabel{Label: "Vario", Slug: "vario"}}
	require.NoError(t, db.Create(&mark).Error)
	require.NoError(t, db.Create(&model).Error)

	tr := Transport{
		OfferCommon: OfferCommon{Name: "Scooter rental", Price: 70000},
		MarkID:      mark.ID,
		ModelID:     model.ID,
		Variety:     TransportMotorcycle,
		Year:        2023,
		EngineSize:  125,
	}
	require.NoError(t, db.Create(&tr).Error)

	// referenced lookup rows must not be deletable
	assert.Error(t, db.Delete(&TransportMark{}, mark.ID).Error)

	require.NoError(t, db.Delete(&Transport{}, tr.ID).Error)
	assert.NoError(t, db.Delete(&TransportMark{}, mark.ID).Error)
}

func TestOwnerDeleteClearsOffers(t *testing.T) {
	db := testDB(t)

	owner := Account{ID: common.UUIDint64(), Username: "seller", Level: "user", Status: common.ENABLED}
	require.NoError(t, db.Create(&owner).Error)

	rec := RealEstate{
		OfferCommon: OfferCommon{Name: "Villa", Price: 2000000, OwnerID: &owner.ID},
		Rooms:       3, Floor: 1, MaxFloor: 2, Sleepers: 4,
	}
	require.NoError(t, db.Create(&rec).Error)

	require.NoError(t, db.Delete(&Account{}, owner.ID).Error)

	var reread RealEstate
	require.NoError(t, db.First(&reread, rec.ID).Error)
	assert.Nil(t, reread.OwnerID, "owner reference must be cleared, not the offer")
}

func TestRealEstateBounds(t *testing.T) {
	db := testDB(t)

	rec := RealEstate{
		OfferCommon: OfferCommon{Name: "Penthouse", Price: 5000000},
		Rooms:       MaxRooms, Floor: MaxFloor, MaxFloor: MaxFloor,
		Sleepers: MaxRooms, Kitchen: true, WiFi: true,
	}
	require.NoError(t, db.Create(&rec).Error)

	var reread RealEstate
	require.NoError(t, db.First(&reread, rec.ID).Error)
	assert.Equal(t, 6, reread.Rooms)
	assert.Equal(t, 10, reread.Floor)
	assert.Equal(t, int64(0), reread.Commission)
}

func TestOfferLocations(t *testing.T) {
	db := testDB(t)

	canggu := Location{RefLabel: RefLabel{Label: "Canggu", Slug: "canggu"}}
	ubud := Location{RefLabel: RefLabel{Label: "Ubud", Slug: "ubud"}}
	require.NoError(t, db.Create(&canggu).Error)
	require.NoError(t, db.Create(&ubud).Error)

	rec := RealEstate{
		OfferCommon: OfferCommon{Name: "Guesthouse", Price: 300000},
		Rooms:       1, Floor: 1, MaxFloor: 1, Sleepers: 2,
		Locations: []Location{canggu},
	}
	require.NoError(t, db.Create(&rec).Error)

	require.NoError(t, db.Model(&rec).Association("Locations").Replace([]Location{ubud}))

	var reread RealEstate
	require.NoError(t, db.Preload("Locations").First(&reread, rec.ID).Error)
	require.Len(t, reread.Locations, 1)
	assert.Equal(t, "ubud", reread.Locations[0].Slug)
}

func TestVisaOptionsOrderedAndCascade(t *testing.T) {
	db := testDB(t)

	variety := VisaVariety{RefLabel: RefLabel{Label: "Tourist", Slug: "tourist"}}
	validity := VisaValidity{RefLabel: RefLabel{Label: "30 days", Slug: "30-days"}}
	require.NoError(t, db.Create(&variety).Error)
	require.NoError(t, db.Create(&validity).Error)

	visa := Visa{OfferCommon: OfferCommon{Name: "Visa help", Price: 0}}
	require.NoError(t, db.Create(&visa).Error)

	opts := []VisaOption{
		{VisaID: visa.ID, SlotNo: 1, VarietyID: variety.ID, ValidityID: validity.ID, Price: 1500000},
		{VisaID: visa.ID, SlotNo: 2, VarietyID: variety.ID, ValidityID: validity.ID, Price: 2500000, Note: "extension"},
	}
	require.NoError(t, db.Create(&opts).Error)

	// the slot number is unique within a record
	dup := VisaOption{VisaID: visa.ID, SlotNo: 1, VarietyID: variety.ID, ValidityID: validity.ID}
	assert.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)

	var reread Visa
	require.NoError(t, db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("slot_no")
	}).First(&reread, visa.ID).Error)
	require.Len(t, reread.Options, 2)
	assert.Equal(t, 1, reread.Options[0].SlotNo)
	assert.Equal(t, int64(1500000), reread.Options[0].Price)

	require.NoError(t, db.Delete(&Visa{}, visa.ID).Error)
	var count int64
	db.Model(&VisaOption{}).Where("visa_id = ?", visa.ID).Count(&count)
	assert.Zero(t, count, "option rows must be removed with the parent")
}

func TestCurrencyQuoteRoundTrip(t *testing.T) {
	db := testDB(t)

	usd := CurrencyName{RefLabel: RefLabel{Label: "USD", Slug: "usd"}}
	idr := CurrencyName{RefLabel: RefLabel{Label: "IDR", Slug: "idr"}}
	require.NoError(t, db.Create(&usd).Error)
	require.NoError(t, db.Create(&idr).Error)

	pair := CurrencyPair{OfferCommon: OfferCommon{Name: "Money changer Kuta"}}
	require.NoError(t, db.Create(&pair).Error)

	quote := CurrencyQuote{
		PairID: pair.ID, SlotNo: 1,
		BaseID: usd.ID, QuoteID: idr.ID,
		BuyRate: 16250.50, SellRate: 16100,
	}
	require.NoError(t, db.Create(&quote).Error)

	var reread CurrencyPair
	require.NoError(t, db.Preload("Quotes.Base").Preload("Quotes.Quote").First(&reread, pair.ID).Error)
	require.Len(t, reread.Quotes, 1)
	assert.InDelta(t, 16250.50, reread.Quotes[0].BuyRate, 0.001)
	assert.Equal(t, "usd", reread.Quotes[0].Base.Slug)

	// a referenced currency cannot be removed
	assert.Error(t, db.Delete(&CurrencyName{}, usd.ID).Error)
}
