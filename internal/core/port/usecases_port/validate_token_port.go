package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type ValidateTokenUseCase interface {
	Execute(ctx context.Context, tokenID, tenantID uuid.UUID) (*domain.TokenValidation, error)
}
