package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type GetConfirmationMetricsUseCase struct {
	confirmations          port.ConfirmationStoragePort
	stalenessThresholdDays int
}

func NewGetConfirmationMetricsUseCase(confirmations port.ConfirmationStoragePort, stalenessThresholdDays int) *GetConfirmationMetricsUseCase {
	if stalenessThresholdDays <= 0 {
		stalenessThresholdDays = domain.DefaultStalenessThresholdDays
	}
	return &GetConfirmationMetricsUseCase{
		confirmations:          confirmations,
		stalenessThresholdDays: stalenessThresholdDays,
	}
}

// Execute - операционная сводка для дашборда. Только чтение.
func (uc *GetConfirmationMetricsUseCase) Execute(ctx context.Context, tenantID uuid.UUID) (*domain.ConfirmationMetrics, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "GetConfirmationMetrics",
		"tenant_id": tenantID.String(),
	})

	threshold := time.Duration(uc.stalenessThresholdDays) * 24 * time.Hour
	metrics, err := uc.confirmations.GetMetrics(ctx, tenantID, threshold)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	metrics.StalenessThresholdDays = uc.stalenessThresholdDays

	return metrics, nil
}
