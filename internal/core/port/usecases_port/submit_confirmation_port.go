package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type SubmitConfirmationUseCase interface {
	Execute(ctx context.Context, tokenID, tenantID uuid.UUID, action domain.ConfirmationAction, priceAmount *float64) (*domain.ScheduledConfirmation, error)
}
