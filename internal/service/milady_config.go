package service

// Вендор и его точки входа
const (
	MiladyVendorName  = "milady"
	miladyLoginURL    = "https://www.miladytraining.com/users/sign_in"
	miladyRedeemURL   = "https://www.miladytraining.com/redeem"
	miladyDefaultCost = 295.0
)

// miladyCosts - стоимость доступа Milady по программам (USD за студента)
var miladyCosts = map[string]float64{
	"barber-apprenticeship":          295,
	"cosmetology-apprenticeship":     295,
	"esthetician-apprenticeship":     195,
	"nail-technician-apprenticeship": 145,
}

// miladyCourseSKUs - артикулы курсов Milady по программам
var miladyCourseSKUs = map[string]string{
	"barber-apprenticeship":          "MILADY-BARBER-RTI",
	"cosmetology-apprenticeship":     "MILADY-COSMO-RTI",
	"esthetician-apprenticeship":     "MILADY-ESTH-RTI",
	"nail-technician-apprenticeship": "MILADY-NAIL-RTI",
}

// miladyBundleURLs - общие ссылки на бандлы программ. Используются manual-путём:
// студент получает рабочую ссылку даже до ручной настройки аккаунта.
var miladyBundleURLs = map[string]string{
	"barber-apprenticeship":          "https://www.miladytraining.com/bundles/barber-rti",
	"cosmetology-apprenticeship":     "https://www.miladytraining.com/bundles/cosmetology-rti",
	"esthetician-apprenticeship":     "https://www.miladytraining.com/bundles/esthetician-rti",
	"nail-technician-apprenticeship": "https://www.miladytraining.com/bundles/nail-technician-rti",
}

// MiladyCost возвращает стоимость доступа для программы (295 по умолчанию)
func MiladyCost(programSlug string) float64 {
	if cost, ok := miladyCosts[programSlug]; ok {
		return cost
	}
	return miladyDefaultCost
}

// MiladyCourseSKU возвращает артикул курса для программы ("" если не настроен)
func MiladyCourseSKU(programSlug string) string {
	return miladyCourseSKUs[programSlug]
}

// MiladyBundleURL возвращает ссылку на бандл программы (общий вход по умолчанию)
func MiladyBundleURL(programSlug string) string {
	if url, ok := miladyBundleURLs[programSlug]; ok {
		return url
	}
	return miladyLoginURL
}
