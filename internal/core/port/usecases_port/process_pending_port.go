package usecases_port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

// tenantID == nil - прогон по всем тенантам (cron)
type ProcessPendingUseCase interface {
	Execute(ctx context.Context, tenantID *uuid.UUID, today time.Time) (*domain.ProcessResult, error)
}
