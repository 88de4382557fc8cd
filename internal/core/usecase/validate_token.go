package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

// publicCallTimeout - валидация и сабмит зовутся с публичной страницы без
// аутентификации, поэтому обязаны укладываться в жесткий таймаут.
const publicCallTimeout = 5 * time.Second

type ValidateTokenUseCase struct {
	tokens     port.TokenStoragePort
	properties port.PropertyStoragePort
}

func NewValidateTokenUseCase(tokens port.TokenStoragePort, properties port.PropertyStoragePort) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{tokens: tokens, properties: properties}
}

// Execute проверяет токен и возвращает read-only срезы объекта и владельца.
// Токен НЕ потребляется: повторная валидация идемпотентна, consumed
// выставляет только сабмит.
func (uc *ValidateTokenUseCase) Execute(ctx context.Context, tokenID, tenantID uuid.UUID) (*domain.TokenValidation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ValidateToken",
		"token_id": tokenID.String(),
	})

	ctx, cancel := context.WithTimeout(ctx, publicCallTimeout)
	defer cancel()

	token, err := uc.tokens.GetByID(ctx, tokenID)
	if err != nil {
		ucLogger.Warn("Token lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := token.Validate(tenantID, time.Now().UTC()); err != nil {
		ucLogger.Warn("Token rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	property, err := uc.properties.GetByID(ctx, token.TenantID, token.PropertyID)
	if err != nil {
		ucLogger.Error("Failed to load property for valid token", err, nil)
		return nil, err
	}
	owner, err := uc.properties.GetOwner(ctx, token.TenantID, token.OwnerID)
	if err != nil {
		ucLogger.Error("Failed to load owner for valid token", err, nil)
		return nil, err
	}

	ucLogger.Info("Token validated", port.Fields{"property_id": property.ID.String()})

	return &domain.TokenValidation{
		Token: token,
		Property: domain.PropertySnapshot{
			PropertyID:    property.ID,
			PropertyType:  property.PropertyType,
			Neighborhood:  property.Neighborhood,
			City:          property.City,
			Reference:     property.Reference,
			CurrentStatus: property.Status,
			CurrentPrice:  property.PriceAmount,
		},
		Owner: domain.OwnerSnapshot{
			OwnerID: owner.ID,
			Name:    owner.Name,
		},
	}, nil
}
