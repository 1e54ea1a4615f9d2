package constants

// Параметры государственного API реальных сделок (국토교통부 RTMS)
const (
	// DefaultMolitBaseURL — endpoint помесячной выгрузки сделок купли-продажи квартир
	DefaultMolitBaseURL = "https://apis.data.go.kr/1613000/RTMSDataSvcAptTradeDev/getRTMSDataSvcAptTradeDev"

	// MolitPageSize — размер страницы. Одного запроса хватает на месяц региона.
	MolitPageSize = 2000

	// MolitResultCodeOK — код успешного ответа в заголовке XML
	MolitResultCodeOK = "000"
)

// Константы обменника событий синхронизации
const (
	EventsExchangeName     = "sync_exchange"
	RoutingKeyRegionSynced = "region.synced"
)
