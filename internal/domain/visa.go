package domain

import (
	"gorm.io/gorm"

	"github.com/baliboard/baliboard/pkg/common"
)

// Visa document-assistance offer. A record carries 1..MaxVisaOptions
// ordered option rows (variety, validity, price, note). Option 1 is
// mandatory, the rest are optional; slot order is preserved.
type Visa struct {
	OfferCommon
	Photo string `gorm:"size:256" json:"photo" form:"photo"` // photos/visa/...

	Options   []VisaOption `gorm:"foreignKey:VisaID;constraint:OnDelete:CASCADE" json:"options"`
	Owner     *Account     `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location   `gorm:"many2many:visa_locations" json:"locations,omitempty"`
}

func (Visa) TableName() string {
	return "offer_visa"
}

// VisaOption one sub-offer of a visa record
type VisaOption struct {
	ID         int64  `json:"id,string" gorm:"primaryKey"`
	VisaID     int64  `gorm:"uniqueIndex:uix_visa_option_slot,priority:1" json:"visa_id,string"`
	SlotNo     int    `gorm:"uniqueIndex:uix_visa_option_slot,priority:2;not null" json:"slot_no"` // 1..MaxVisaOptions
	VarietyID  int64  `gorm:"index;not null" json:"variety_id,string" form:"variety_id"`
	ValidityID int64  `gorm:"index;not null" json:"validity_id,string" form:"validity_id"`
	Price      int64  `gorm:"not null;default:0" json:"price" form:"price"`
	Note       string `gorm:"size:256" json:"note" form:"note"`

	Variety  *VisaVariety  `gorm:"foreignKey:VarietyID;constraint:OnDelete:RESTRICT" json:"variety,omitempty"`
	Validity *VisaValidity `gorm:"foreignKey:ValidityID;constraint:OnDelete:RESTRICT" json:"validity,omitempty"`
}

func (VisaOption) TableName() string {
	return "offer_visa_option"
}

func (v *VisaOption) BeforeCreate(tx *gorm.DB) error {
	if v.ID == 0 {
		v.ID = common.UUIDint64()
	}
	if v.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}
