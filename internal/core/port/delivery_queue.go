package port

import (
	"context"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

// DeliveryQueuePort - контракт передачи запроса транспортному коллаборатору
// (WhatsApp/email-шлюзы живут за брокером, сервис их внутренностей не знает).
type DeliveryQueuePort interface {
	PublishDispatch(ctx context.Context, event domain.DeliveryDispatchEvent) error
}
