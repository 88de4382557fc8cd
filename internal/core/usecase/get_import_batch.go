package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type GetImportBatchUseCase struct {
	batches port.ImportBatchStoragePort
}

func NewGetImportBatchUseCase(batches port.ImportBatchStoragePort) *GetImportBatchUseCase {
	return &GetImportBatchUseCase{batches: batches}
}

// Execute отдает состояние пакета импорта. Дашборд поллит этот usecase с
// фиксированным интервалом, пока статус не станет completed/failed.
func (uc *GetImportBatchUseCase) Execute(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.ImportBatch, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetImportBatch",
		"batch_id": batchID.String(),
	})

	batch, err := uc.batches.GetByID(ctx, tenantID, batchID)
	if err != nil {
		ucLogger.Warn("Import batch lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	return batch, nil
}
