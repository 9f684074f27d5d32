package domain

import (
	"gorm.io/gorm"

	"github.com/baliboard/baliboard/pkg/common"
)

// CurrencyPair money-exchange offer. A record carries
// 1..MaxCurrencyQuotes ordered quote rows (base, quote, buy/sell rate,
// note). Quote 1 is mandatory, the rest are optional.
type CurrencyPair struct {
	OfferCommon

	Quotes    []CurrencyQuote `gorm:"foreignKey:PairID;constraint:OnDelete:CASCADE" json:"quotes"`
	Owner     *Account        `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location      `gorm:"many2many:currency_locations" json:"locations,omitempty"`
}

func (CurrencyPair) TableName() string {
	return "offer_currency_pair"
}

// CurrencyQuote one exchange quote of a currency-pair record.
// BuyRate converts base into quote currency, SellRate the reverse.
type CurrencyQuote struct {
	ID       int64   `json:"id,string" gorm:"primaryKey"`
	PairID   int64   `gorm:"uniqueIndex:uix_currency_quote_slot,priority:1" json:"pair_id,string"`
	SlotNo   int     `gorm:"uniqueIndex:uix_currency_quote_slot,priority:2;not null" json:"slot_no"` // 1..MaxCurrencyQuotes
	BaseID   int64   `gorm:"index;not null" json:"base_id,string" form:"base_id"`
	QuoteID  int64   `gorm:"index;not null" json:"quote_id,string" form:"quote_id"`
	BuyRate  float64 `gorm:"not null;default:0" json:"buy_rate" form:"buy_rate"`
	SellRate float64 `gorm:"not null;default:0" json:"sell_rate" form:"sell_rate"`
	Note     string  `gorm:"size:256" json:"note" form:"note"`

	Base  *CurrencyName `gorm:"foreignKey:BaseID;constraint:OnDelete:RESTRICT" json:"base,omitempty"`
	Quote *CurrencyName `gorm:"foreignKey:QuoteID;constraint:OnDelete:RESTRICT" json:"quote,omitempty"`
}

func (CurrencyQuote) TableName() string {
	return "offer_currency_quote"
}

func (q *CurrencyQuote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == 0 {
		q.ID = common.UUIDint64()
	}
	return nil
}
