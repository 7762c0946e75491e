package models

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	// OpenHour/CloseHour bound the hourly chart; bookings outside the
	// range are dropped from the hourly series, not clipped.
	OpenHour  = 8
	CloseHour = 22

	// DefaultPageSize размер страницы истории бронирований
	DefaultPageSize = 10

	// PageWindowSize максимум кнопок страниц в навигации
	PageWindowSize = 5

	// PaletteSize количество цветов в палитре для долевых диаграмм
	PaletteSize = 10

	// DefaultSnapshotTTL время жизни кэша снапшота в секундах
	DefaultSnapshotTTL = 5 * 60

	// RateLimitRPS / RateLimitBurst значения по умолчанию для API
	RateLimitRPS   = 10
	RateLimitBurst = 5

	// WorkerQueueSize размер очереди воркера отчетов
	WorkerQueueSize = 100
)
