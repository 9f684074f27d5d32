package adminapi

// InitRouter registers every admin endpoint on the shared API group
func InitRouter() {
	registerLookupRoutes()
	registerRealEstateRoutes()
	registerTransportRoutes()
	registerWorkRoutes()
	registerServiceRoutes()
	registerGoodsRoutes()
	registerEventRoutes()
	registerVisaRoutes()
	registerCurrencyRoutes()
	registerAccountRoutes()
	registerSettingsRoutes()
	registerExportRoutes()
}
