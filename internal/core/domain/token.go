package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTokenTTL - политика по умолчанию для времени жизни токена
const DefaultTokenTTL = 30 * 24 * time.Hour

// ConfirmationToken - одноразовый токен, подставляющий собой аутентификацию
// на публичной странице /confirmar/{token}. Привязан к тройке
// (tenant, property, owner).
type ConfirmationToken struct {
	TokenID    uuid.UUID `json:"token_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	PropertyID uuid.UUID `json:"property_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	Consumed   bool      `json:"consumed"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewConfirmationToken - конструктор. TTL <= 0 заменяется политикой по умолчанию.
func NewConfirmationToken(tenantID, propertyID, ownerID uuid.UUID, ttl time.Duration) *ConfirmationToken {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now().UTC()
	return &ConfirmationToken{
		TokenID:    uuid.New(),
		TenantID:   tenantID,
		PropertyID: propertyID,
		OwnerID:    ownerID,
		ExpiresAt:  now.Add(ttl),
		Consumed:   false,
		CreatedAt:  now,
	}
}

// Validate проверяет токен. Consumed имеет приоритет над expiry -
// использованный токен никогда не становится валидным снова.
func (t *ConfirmationToken) Validate(tenantID uuid.UUID, now time.Time) error {
	if t.Consumed {
		return ErrTokenConsumed
	}
	if now.After(t.ExpiresAt) {
		return ErrTokenExpired
	}
	if t.TenantID != tenantID {
		return ErrTenantMismatch
	}
	return nil
}

// TokenValidation - результат успешной валидации: токен плюс read-only срезы
// объекта и владельца. Токен при этом НЕ потребляется.
type TokenValidation struct {
	Token    *ConfirmationToken `json:"token"`
	Property PropertySnapshot   `json:"property"`
	Owner    OwnerSnapshot      `json:"owner"`
}
