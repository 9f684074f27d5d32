package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	&Account{},
	// Reference
	&Location{},
	&TransportMark{},
	&TransportModel{},
	&EventTheme{},
	&VisaVariety{},
	&VisaValidity{},
	&ServiceKind{},
	&CurrencyName{},
	// Offers
	&RealEstate{},
	&Transport{},
	&Work{},
	&Service{},
	&BuySell{},
	&Food{},
	&Taxi{},
	&Trip{},
	&EventPoster{},
	&Visa{},
	&VisaOption{},
	&CurrencyPair{},
	&CurrencyQuote{},
}
