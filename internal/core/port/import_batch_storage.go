package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

// ImportBatchStoragePort - read-only доступ к пакетам импорта.
// Таблицу пишет внешний импортер, дашборд поллит состояние через нас.
type ImportBatchStoragePort interface {
	GetByID(ctx context.Context, tenantID, batchID uuid.UUID) (*domain.ImportBatch, error)
}
