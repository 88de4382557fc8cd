package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type OperatorConfirmUseCase struct {
	properties port.PropertyStoragePort
}

func NewOperatorConfirmUseCase(properties port.PropertyStoragePort) *OperatorConfirmUseCase {
	return &OperatorConfirmUseCase{properties: properties}
}

// Execute - прямое подтверждение сотрудником, минуя токен владельца.
// Эффекты на стороне объекта те же, что у сабмита; аутентификация -
// staff-учетка, в аудит уходит тег operator_reported.
func (uc *OperatorConfirmUseCase) Execute(ctx context.Context, tenantID, propertyID uuid.UUID, confirmStatus *domain.PropertyStatus, confirmPrice *float64, reason string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "OperatorConfirm",
		"tenant_id":   tenantID.String(),
		"property_id": propertyID.String(),
		"reason":      reason,
		"source":      "operator_reported",
	})

	if confirmStatus == nil && confirmPrice == nil {
		return nil, fmt.Errorf("nothing to confirm: provide confirm_status and/or confirm_price_amount")
	}
	if confirmStatus != nil {
		switch *confirmStatus {
		case domain.PropertyAvailable, domain.PropertyUnavailable, domain.PropertyRented,
			domain.PropertySold, domain.PropertyReserved, domain.PropertyPendingConfirmation:
		default:
			return nil, fmt.Errorf("unknown property status: %q", string(*confirmStatus))
		}
	}
	if confirmPrice != nil && *confirmPrice <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	property, err := uc.properties.ApplyOperatorConfirmation(ctx, port.OperatorConfirmation{
		TenantID:      tenantID,
		PropertyID:    propertyID,
		ConfirmStatus: confirmStatus,
		ConfirmPrice:  confirmPrice,
		ConfirmedAt:   time.Now().UTC(),
	})
	if err != nil {
		ucLogger.Error("Operator confirmation failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Operator confirmation applied", port.Fields{"status": string(property.Status)})
	return property, nil
}
