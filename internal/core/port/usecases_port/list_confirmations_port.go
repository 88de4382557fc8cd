package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type ListConfirmationsUseCase interface {
	Execute(ctx context.Context, tenantID uuid.UUID, status *domain.ConfirmationStatus, limit, offset int) ([]domain.ScheduledConfirmation, int64, error)
}
