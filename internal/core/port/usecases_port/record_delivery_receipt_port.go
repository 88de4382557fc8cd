package usecases_port

import (
	"context"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type RecordDeliveryReceiptUseCase interface {
	Execute(ctx context.Context, receipt domain.DeliveryReceiptEvent) error
}
