package usecase

import (
	"context"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type RecordDeliveryReceiptUseCase struct {
	confirmations port.ConfirmationStoragePort
}

func NewRecordDeliveryReceiptUseCase(confirmations port.ConfirmationStoragePort) *RecordDeliveryReceiptUseCase {
	return &RecordDeliveryReceiptUseCase{confirmations: confirmations}
}

// Execute применяет квитанцию канала доставки к sent-записи. Квитанция по
// записи в другом состоянии - штатная ситуация (дубликат или владелец уже
// ответил), хранилище молча ее игнорирует.
func (uc *RecordDeliveryReceiptUseCase) Execute(ctx context.Context, receipt domain.DeliveryReceiptEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":        "RecordDeliveryReceipt",
		"confirmation_id": receipt.ConfirmationID.String(),
		"success":         receipt.Success,
	})

	if err := uc.confirmations.ApplyDeliveryReceipt(ctx, receipt); err != nil {
		ucLogger.Error("Failed to apply delivery receipt", err, nil)
		return err
	}

	if !receipt.Success {
		ucLogger.Warn("Delivery failed, confirmation marked as failed", port.Fields{"detail": receipt.Detail})
	}
	return nil
}
