package usecases_port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type ScheduleMonthlyUseCase interface {
	Execute(ctx context.Context, tenantID uuid.UUID, targetDate time.Time, dryRun bool) (*domain.ScheduleResult, error)
}
