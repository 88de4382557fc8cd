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

type IssueConfirmationLinkUseCase struct {
	properties    port.PropertyStoragePort
	confirmations port.ConfirmationStoragePort
	publicBaseURL string
	tokenTTL      time.Duration
}

func NewIssueConfirmationLinkUseCase(properties port.PropertyStoragePort,
	confirmations port.ConfirmationStoragePort,
	publicBaseURL string,
	tokenTTL time.Duration) *IssueConfirmationLinkUseCase {
	return &IssueConfirmationLinkUseCase{
		properties:    properties,
		confirmations: confirmations,
		publicBaseURL: publicBaseURL,
		tokenTTL:      tokenTTL,
	}
}

// Execute выпускает разовую ссылку подтверждения вне месячного цикла.
// Запись создается pending и сразу переводится в sent: доставку берет на
// себя сотрудник (порядок pending -> sent сохранен ради аудита).
// Активная запись в текущем цикле блокирует выпуск (ErrDuplicateSchedule).
func (uc *IssueConfirmationLinkUseCase) Execute(ctx context.Context, tenantID, propertyID, ownerID uuid.UUID, deliveryHint string) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "IssueConfirmationLink",
		"tenant_id":   tenantID.String(),
		"property_id": propertyID.String(),
	})

	property, err := uc.properties.GetByID(ctx, tenantID, propertyID)
	if err != nil {
		ucLogger.Warn("Property lookup failed", port.Fields{"error": err.Error()})
		return "", err
	}

	if ownerID == uuid.Nil {
		if property.OwnerID == nil {
			return "", domain.ErrOwnerNotFound
		}
		ownerID = *property.OwnerID
	}
	if _, err := uc.properties.GetOwner(ctx, tenantID, ownerID); err != nil {
		ucLogger.Warn("Owner lookup failed", port.Fields{"error": err.Error()})
		return "", err
	}

	method := domain.DeliveryManual
	switch domain.DeliveryMethod(deliveryHint) {
	case domain.DeliveryWhatsApp:
		method = domain.DeliveryWhatsApp
	case domain.DeliveryEmail:
		method = domain.DeliveryEmail
	}

	token := domain.NewConfirmationToken(tenantID, propertyID, ownerID, uc.tokenTTL)
	confirmationURL := fmt.Sprintf("%s/confirmar/%s?tenant_id=%s", uc.publicBaseURL, token.TokenID.String(), tenantID.String())

	now := time.Now().UTC()
	confirmation := domain.NewScheduledConfirmation(token, property.BrokerID, confirmationURL, now, method)

	if err := uc.confirmations.Create(ctx, confirmation, token); err != nil {
		ucLogger.Warn("Could not create ad hoc confirmation", port.Fields{"error": err.Error()})
		return "", err
	}
	if err := uc.confirmations.MarkSent(ctx, confirmation.ID, now, "ad hoc link issued"); err != nil {
		ucLogger.Error("Could not mark ad hoc confirmation as sent", err, nil)
		return "", err
	}

	ucLogger.Info("Ad hoc confirmation link issued", port.Fields{
		"confirmation_id": confirmation.ID.String(),
		"token_id":        token.TokenID.String(),
	})

	return confirmationURL, nil
}
