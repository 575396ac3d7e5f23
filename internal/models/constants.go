package models

import "time"

const (
	// DateLayout канонический формат даты во всех коллекциях
	DateLayout = "2006-01-02"

	// TimestampLayout формат отметок времени журнала и объявлений (до минуты)
	TimestampLayout = "2006-01-02 15:04"

	// DisplayDateLayout формат даты в исходящих сообщениях
	DisplayDateLayout = "02-01-2006"
)

const (
	// DefaultAdminUsername логин администратора по умолчанию
	DefaultAdminUsername = "admin1"

	// DefaultAdminSecret пароль администратора по умолчанию (хэшируется при записи)
	DefaultAdminSecret = "1234"

	// ForwardWindowDays окно записи вперед для гостей
	ForwardWindowDays = 7

	// AdminLogRetention срок хранения записей журнала действий
	AdminLogRetention = 24 * time.Hour

	// SessionTTL время жизни сессии в хранилище
	SessionTTL = 24 * time.Hour
)
