package domain

// Marketplace categories: work, services and the buy/sell family.
// Food, Taxi and Trip share the buy/sell shape but live in their own
// tables with their own photo directories and location joins.

// Work vacancy offer, price is the pay per period
type Work struct {
	OfferCommon
	Vacancy    string `gorm:"size:64;not null" json:"vacancy" form:"vacancy"`
	Period     string `gorm:"size:16;not null" json:"period" form:"period"` // day/month/other
	Experience bool   `gorm:"default:false" json:"experience" form:"experience"`
	FullTime   bool   `gorm:"default:false" json:"full_time" form:"full_time"`
	Photo      string `gorm:"size:256" json:"photo" form:"photo"` // photos/work/...

	Owner     *Account   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location `gorm:"many2many:work_locations" json:"locations,omitempty"`
}

func (Work) TableName() string {
	return "offer_work"
}

// Service offered-service listing
type Service struct {
	OfferCommon
	KindID    int64  `gorm:"index;not null" json:"kind_id,string" form:"kind_id"`
	Unit      string `gorm:"size:16;not null" json:"unit" form:"unit"` // service/hour/other
	HomeVisit bool   `gorm:"default:false" json:"home_visit" form:"home_visit"`
	Photo     string `gorm:"size:256" json:"photo" form:"photo"` // photos/service/...

	Kind      *ServiceKind `gorm:"foreignKey:KindID;constraint:OnDelete:RESTRICT" json:"kind,omitempty"`
	Owner     *Account     `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location   `gorm:"many2many:service_locations" json:"locations,omitempty"`
}

func (Service) TableName() string {
	return "offer_service"
}

// BuySell generic goods listing
type BuySell struct {
	OfferCommon
	Product  string `gorm:"size:64;not null" json:"product" form:"product"`
	Unit     string `gorm:"size:16;not null" json:"unit" form:"unit"` // piece/kg/gram
	Delivery bool   `gorm:"default:false" json:"delivery" form:"delivery"`
	Photo    string `gorm:"size:256" json:"photo" form:"photo"` // photos/buysell/...

	Owner     *Account   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location `gorm:"many2many:buysell_locations" json:"locations,omitempty"`
}

func (BuySell) TableName() string {
	return "offer_buysell"
}

// Food home-cooked food listing
type Food struct {
	OfferCommon
	Product  string `gorm:"size:64;not null" json:"product" form:"product"`
	Unit     string `gorm:"size:16;not null" json:"unit" form:"unit"`
	Delivery bool   `gorm:"default:false" json:"delivery" form:"delivery"`
	Photo    string `gorm:"size:256" json:"photo" form:"photo"` // photos/food/...

	Owner     *Account   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location `gorm:"many2many:food_locations" json:"locations,omitempty"`
}

func (Food) TableName() string {
	return "offer_food"
}

// Taxi ride offer
type Taxi struct {
	OfferCommon
	Product  string `gorm:"size:64;not null" json:"product" form:"product"`
	Unit     string `gorm:"size:16;not null" json:"unit" form:"unit"`
	Delivery bool   `gorm:"default:false" json:"delivery" form:"delivery"`
	Photo    string `gorm:"size:256" json:"photo" form:"photo"` // photos/taxi/...

	Owner     *Account   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location `gorm:"many2many:taxi_locations" json:"locations,omitempty"`
}

func (Taxi) TableName() string {
	return "offer_taxi"
}

// Trip excursion offer
type Trip struct {
	OfferCommon
	Product  string `gorm:"size:64;not null" json:"product" form:"product"`
	Unit     string `gorm:"size:16;not null" json:"unit" form:"unit"`
	Delivery bool   `gorm:"default:false" json:"delivery" form:"delivery"`
	Photo    string `gorm:"size:256" json:"photo" form:"photo"` // photos/trip/...

	Owner     *Account   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	Locations []Location `gorm:"many2many:trip_locations" json:"locations,omitempty"`
}

func (Trip) TableName() string {
	return "offer_trip"
}

// The buy/sell family shares one admin surface; these accessors let the
// handlers treat the four tables uniformly.

func (b *BuySell) SetGoods(product, unit string, delivery bool, photo string) {
	b.Product, b.Unit, b.Delivery, b.Photo = product, unit, delivery, photo
}
func (b *BuySell) SetLocations(locs []Location) { b.Locations = locs }

func (f *Food) SetGoods(product, unit string, delivery bool, photo string) {
	f.Product, f.Unit, f.Delivery, f.Photo = product, unit, delivery, photo
}
func (f *Food) SetLocations(locs []Location) { f.Locations = locs }

func (t *Taxi) SetGoods(product, unit string, delivery bool, photo string) {
	t.Product, t.Unit, t.Delivery, t.Photo = product, unit, delivery, photo
}
func (t *Taxi) SetLocations(locs []Location) { t.Locations = locs }

func (t *Trip) SetGoods(product, unit string, delivery bool, photo string) {
	t.Product, t.Unit, t.Delivery, t.Photo = product, unit, delivery, photo
}
func (t *Trip) SetLocations(locs []Location) { t.Locations = locs }
