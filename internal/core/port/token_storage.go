package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

// TokenStoragePort - хранилище одноразовых токенов подтверждения.
// Потребление токена здесь намеренно отсутствует: оно происходит только
// внутри атомарной транзакции сабмита (ConfirmationStoragePort.ApplySubmission).
type TokenStoragePort interface {
	// Create сохраняет новый токен
	Create(ctx context.Context, token *domain.ConfirmationToken) error

	// GetByID возвращает токен по его ID или domain.ErrTokenNotFound
	GetByID(ctx context.Context, tokenID uuid.UUID) (*domain.ConfirmationToken, error)
}
