package constants

// Обменник сервиса подтверждений
const (
	ConfirmationExchangeName = "confirmation_exchange"
	ConfirmationExchangeType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyDeliveryWhatsApp = "confirmation.delivery.whatsapp"
	RoutingKeyDeliveryEmail    = "confirmation.delivery.email"
	RoutingKeyDeliveryReceipt  = "confirmation.delivery.receipt"
)

// Очереди
const (
	QueueDeliveryReceipts = "confirmation.delivery.receipts"
)

// Версионирование событий для валидации по схеме
const (
	DeliveryEventType    = "ConfirmationDeliveryEvent"
	DeliveryEventVersion = "1.0.0"

	ReceiptEventType    = "DeliveryReceiptEvent"
	ReceiptEventVersion = "1.0.0"
)
