package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type CancelConfirmationUseCase interface {
	Execute(ctx context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error)
}
