package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type SubmitConfirmationUseCase struct {
	tokens        port.TokenStoragePort
	confirmations port.ConfirmationStoragePort
}

func NewSubmitConfirmationUseCase(tokens port.TokenStoragePort, confirmations port.ConfirmationStoragePort) *SubmitConfirmationUseCase {
	return &SubmitConfirmationUseCase{tokens: tokens, confirmations: confirmations}
}

// Execute применяет действие владельца. Эффекты атомарны (все или ничего):
// потребление токена, переход записи sent -> responded и обновление объекта
// выполняются в одной транзакции хранилища. Два конкурентных сабмита по
// одному токену не могут пройти оба - CAS по consumed пропустит один.
func (uc *SubmitConfirmationUseCase) Execute(ctx context.Context, tokenID, tenantID uuid.UUID, action domain.ConfirmationAction, priceAmount *float64) (*domain.ScheduledConfirmation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SubmitConfirmation",
		"token_id": tokenID.String(),
		"action":   string(action),
	})

	ctx, cancel := context.WithTimeout(ctx, publicCallTimeout)
	defer cancel()

	response, err := action.Response()
	if err != nil {
		ucLogger.Warn("Unknown action rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	if action == domain.ActionConfirmPrice {
		if priceAmount == nil || *priceAmount <= 0 {
			ucLogger.Warn("Price confirmation without a positive amount", nil)
			return nil, domain.ErrInvalidPrice
		}
	}

	// Предварительная проверка дает те же виды ошибок, что и валидация на
	// GET: просроченный токен отклоняется до любых мутаций.
	token, err := uc.tokens.GetByID(ctx, tokenID)
	if err != nil {
		ucLogger.Warn("Token lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}
	if err := token.Validate(tenantID, time.Now().UTC()); err != nil {
		ucLogger.Warn("Token rejected on submit", port.Fields{"error": err.Error()})
		return nil, err
	}

	cmd := domain.SubmissionCommand{
		TokenID:     tokenID,
		TenantID:    tenantID,
		Action:      action,
		Response:    response,
		PriceAmount: priceAmount,
		RespondedAt: time.Now().UTC(),
	}

	confirmation, property, err := uc.confirmations.ApplySubmission(ctx, cmd)
	if err != nil {
		ucLogger.Warn("Submission rejected by storage", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Info("Owner submission applied", port.Fields{
		"confirmation_id": confirmation.ID.String(),
		"property_id":     property.ID.String(),
		"response":        string(response),
	})

	return confirmation, nil
}
