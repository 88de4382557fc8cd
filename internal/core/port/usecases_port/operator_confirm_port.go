package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type OperatorConfirmUseCase interface {
	Execute(ctx context.Context, tenantID, propertyID uuid.UUID, confirmStatus *domain.PropertyStatus, confirmPrice *float64, reason string) (*domain.Property, error)
}
