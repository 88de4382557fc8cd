package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type GetConfirmationMetricsUseCase interface {
	Execute(ctx context.Context, tenantID uuid.UUID) (*domain.ConfirmationMetrics, error)
}
