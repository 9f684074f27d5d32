package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/baliboard/baliboard/pkg/common"
)

// OfferCommon holds the columns shared by every offer category. It is
// embedded by value in each concrete category record, the relation
// fields (owner, locations) live on the concrete types.
type OfferCommon struct {
	ID          int64     `json:"id,string" form:"id" gorm:"primaryKey"`
	Name        string    `gorm:"size:128;index" json:"name" form:"name"`
	Price       int64     `gorm:"not null;default:0" json:"price" form:"price"`
	OwnerID     *int64    `gorm:"index" json:"owner_id,string,omitempty" form:"owner_id"`
	Description string    `gorm:"size:2048" json:"description" form:"description"`
	IsPublic    bool      `gorm:"default:true" json:"is_public" form:"is_public"`
	Priority    bool      `gorm:"default:false" json:"priority" form:"priority"`
	Slug        string    `gorm:"size:64;uniqueIndex" json:"slug" form:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key and, when the caller supplied no
// slug, derives one from the current timestamp at microsecond
// resolution. A concurrent write landing on the same microsecond
// surfaces as a unique violation which the caller retries.
func (o *OfferCommon) BeforeCreate(tx *gorm.DB) error {
	if o.ID == 0 {
		o.ID = common.UUIDint64()
	}
	if o.Slug == "" {
		o.Slug = common.TimestampSlug(time.Now())
	}
	if o.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

func (o *OfferCommon) BeforeUpdate(tx *gorm.DB) error {
	if o.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Common returns the shared offer columns of the record
func (o *OfferCommon) Common() *OfferCommon { return o }

// Transport variety choices
const (
	TransportBike       = "bike"
	TransportMotorcycle = "motorcycle"
	TransportCar        = "car"
	TransportOther      = "other"
)

// Work pay period choices: the listed price is per period
const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodOther = "other"
)

// Service unit-of-measure choices
const (
	ServiceUnitService = "service"
	ServiceUnitHour    = "hour"
	ServiceUnitOther   = "other"
)

// Buy/sell unit-of-measure choices
const (
	GoodsUnitPiece = "piece"
	GoodsUnitKg    = "kg"
	GoodsUnitGram  = "gram"
)

// Bounded count choices carried over from the listing forms:
// rooms and sleepers saturate at 6 ("6 or more"), floors at 10.
const (
	MaxRooms = 6
	MaxFloor = 10

	MaxVisaOptions    = 8
	MaxCurrencyQuotes = 9
)
