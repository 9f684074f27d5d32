package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/baliboard/baliboard/pkg/common"
)

// Reference (lookup) tables: small label/slug pairs referenced by offers.
// Offers hold RESTRICT foreign keys to these rows, a referenced row
// cannot be deleted until the last referencing offer is gone.

// RefLabel is the shared shape of every lookup table
type RefLabel struct {
	ID        int64     `json:"id,string" form:"id" gorm:"primaryKey"`
	Label     string    `gorm:"size:64;index" json:"label" form:"label"`
	Slug      string    `gorm:"size:80;uniqueIndex" json:"slug" form:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RefLabel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == 0 {
		r.ID = common.UUIDint64()
	}
	return nil
}

func (r *RefLabel) GetID() int64      { return r.ID }
func (r *RefLabel) GetLabel() string  { return r.Label }
func (r *RefLabel) GetSlug() string   { return r.Slug }
func (r *RefLabel) SetLabel(v string) { r.Label = v }
func (r *RefLabel) SetSlug(v string)  { r.Slug = v }

// Location city/district an offer is posted for
type Location struct {
	RefLabel
}

func (Location) TableName() string {
	return "ref_location"
}

// TransportMark vehicle make (Honda, Yamaha, ...)
type TransportMark struct {
	RefLabel
}

func (TransportMark) TableName() string {
	return "ref_transport_mark"
}

// TransportModel vehicle model within a make
type TransportModel struct {
	RefLabel
}

func (TransportModel) TableName() string {
	return "ref_transport_model"
}

// EventTheme event poster theme
type EventTheme struct {
	RefLabel
}

func (EventTheme) TableName() string {
	return "ref_event_theme"
}

// VisaVariety visa kind (tourist, business, ...)
type VisaVariety struct {
	RefLabel
}

func (VisaVariety) TableName() string {
	return "ref_visa_variety"
}

// VisaValidity visa validity period (30 days, 1 year, ...)
type VisaValidity struct {
	RefLabel
}

func (VisaValidity) TableName() string {
	return "ref_visa_validity"
}

// ServiceKind kind of offered service (manicure, guitar lessons, ...)
type ServiceKind struct {
	RefLabel
}

func (ServiceKind) TableName() string {
	return "ref_service_kind"
}

// CurrencyName currency label for exchange quotes
type CurrencyName struct {
	RefLabel
}

func (CurrencyName) TableName() string {
	return "ref_currency_name"
}
