package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type GetImportBatchUseCase interface {
	Execute(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.ImportBatch, error)
}
