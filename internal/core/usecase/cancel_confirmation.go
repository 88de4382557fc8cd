package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type CancelConfirmationUseCase struct {
	confirmations port.ConfirmationStoragePort
}

func NewCancelConfirmationUseCase(confirmations port.ConfirmationStoragePort) *CancelConfirmationUseCase {
	return &CancelConfirmationUseCase{confirmations: confirmations}
}

// Execute - административный отзыв записи (объект снят с продажи и т.п.).
// Если владелец успел ответить раньше, хранилище вернет ErrCancelConflict -
// оператор увидит явный конфликт, молча перезаписывать ответ нельзя.
func (uc *CancelConfirmationUseCase) Execute(ctx context.Context, tenantID, confirmationID uuid.UUID) (*domain.ScheduledConfirmation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":        "CancelConfirmation",
		"tenant_id":       tenantID.String(),
		"confirmation_id": confirmationID.String(),
	})

	confirmation, err := uc.confirmations.Cancel(ctx, tenantID, confirmationID)
	if err != nil {
		ucLogger.Warn("Cancel rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Info("Confirmation cancelled", nil)
	return confirmation, nil
}
