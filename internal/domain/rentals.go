package domain

// Rental categories: real estate and transport.

// RealEstate housing rental offer
type RealEstate struct {
	OfferCommon
	Rooms          int    `gorm:"not null" json:"rooms" form:"rooms"`             // 1..6, 6 means "6 or more"
	Floor          int    `gorm:"not null" json:"floor" form:"floor"`             // 1..10, 10 means "10 or more"
	MaxFloor       int    `gorm:"not null" json:"max_floor" form:"max_floor"`     // building height, same scale
	Kitchen        bool   `gorm:"default:false" json:"kitchen" form:"kitchen"`
	WiFi           bool   `gorm:"default:false" json:"wifi" form:"wifi"`
	AirConditioner bool   `gorm:"default:false" json:"air_conditioner" form:"air_conditioner"`
	WashingMachine bool   `gorm:"default:false" json:"washing_machine" form:"washing_machine"`
	Sleepers       int    `gorm:"not null" json:"sleepers" form:"sleepers"` // 1..6, 6 means "6 or more"
	Commission     int64  `gorm:"default:0" json:"commission" form:"commission"`
	Photo          string `gorm:"size:256" json:"photo" form:"photo"` // photos/estate/...

	Owner     *Account   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location `gorm:"many2many:estate_locations" json:"locations,omitempty"`
}

func (RealEstate) TableName() string {
	return "offer_real_estate"
}

// Transport vehicle rental offer
type Transport struct {
	OfferCommon
	MarkID         int64  `gorm:"index;not null" json:"mark_id,string" form:"mark_id"`
	ModelID        int64  `gorm:"index;not null" json:"model_id,string" form:"model_id"`
	Variety        string `gorm:"size:16;not null" json:"variety" form:"variety"` // bike/motorcycle/car/other
	Year           int    `json:"year" form:"year"`
	EngineSize     int    `json:"engine_size" form:"engine_size"` // displacement, cc
	Delivery       bool   `gorm:"default:false" json:"delivery" form:"delivery"`
	Commission     int64  `gorm:"default:0" json:"commission" form:"commission"`
	AirConditioner bool   `gorm:"default:false" json:"air_conditioner" form:"air_conditioner"`
	Photo          string `gorm:"size:256" json:"photo" form:"photo"` // photos/transport/...

	Mark      *TransportMark  `gorm:"foreignKey:MarkID;constraint:OnDelete:RESTRICT" json:"mark,omitempty"`
	Model     *TransportModel `gorm:"foreignKey:ModelID;constraint:OnDelete:RESTRICT" json:"model,omitempty"`
	Owner     *Account        `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location      `gorm:"many2many:transport_locations" json:"locations,omitempty"`
}

func (Transport) TableName() string {
	return "offer_transport"
}
