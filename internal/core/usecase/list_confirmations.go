package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type ListConfirmationsUseCase struct {
	confirmations port.ConfirmationStoragePort
}

func NewListConfirmationsUseCase(confirmations port.ConfirmationStoragePort) *ListConfirmationsUseCase {
	return &ListConfirmationsUseCase{confirmations: confirmations}
}

func (uc *ListConfirmationsUseCase) Execute(ctx context.Context, tenantID uuid.UUID, status *domain.ConfirmationStatus, limit, offset int) ([]domain.ScheduledConfirmation, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "ListConfirmations",
		"tenant_id": tenantID.String(),
	})

	confirmations, total, err := uc.confirmations.List(ctx, tenantID, status, limit, offset)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, 0, err
	}

	return confirmations, total, nil
}
