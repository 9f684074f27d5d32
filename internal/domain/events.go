package domain

import "time"

// EventPoster event/show announcement
type EventPoster struct {
	OfferCommon
	StartsAt time.Time `gorm:"index" json:"starts_at" form:"starts_at"`
	ThemeID  int64     `gorm:"index;not null" json:"theme_id,string" form:"theme_id"`
	Photo    string    `gorm:"size:256" json:"photo" form:"photo"` // photos/event/...

	Theme     *EventTheme `gorm:"foreignKey:ThemeID;constraint:OnDelete:RESTRICT" json:"theme,omitempty"`
	Owner     *Account    `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location  `gorm:"many2many:event_locations" json:"locations,omitempty"`
}

func (EventPoster) TableName() string {
	return "offer_event_poster"
}
