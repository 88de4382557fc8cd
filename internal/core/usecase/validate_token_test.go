package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

type publicFixture struct {
	tokens        *fakeTokenStorage
	properties    *fakePropertyStorage
	confirmations *fakeConfirmationStorage

	tenantID uuid.UUID
	property *domain.Property
	owner    *domain.Owner
}

// newPublicFixture собирает полную цепочку объект-владелец-токен-запись
// в состоянии sent, как после прогона batch runner'а.
func newPublicFixture() (*publicFixture, *domain.ConfirmationToken) {
	tokens := newFakeTokenStorage()
	properties := newFakePropertyStorage()
	confirmations := newFakeConfirmationStorage(tokens, properties)

	tenantID := uuid.New()
	owner := &domain.Owner{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     "Maria Souza",
		Phone:    strPtr("+5511999990000"),
	}
	property := &domain.Property{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Reference:    "AP-100",
		PropertyType: "apartment",
		Neighborhood: "Moema",
		City:         "Sao Paulo",
		Status:       domain.PropertyAvailable,
		PriceAmount:  450000,
		OwnerID:      &owner.ID,
	}
	properties.properties[property.ID] = property
	properties.owners[owner.ID] = owner

	token := domain.NewConfirmationToken(tenantID, property.ID, owner.ID, 30*24*time.Hour)
	confirmation := domain.NewScheduledConfirmation(token, nil, "https://confirm.example.com/confirmar/"+token.TokenID.String(), time.Now().UTC(), domain.DeliveryWhatsApp)
	confirmation.Status = domain.ConfirmationSent

	tokens.tokens[token.TokenID] = token
	confirmations.confirmations[confirmation.ID] = confirmation
	confirmations.byToken[token.TokenID] = confirmation.ID

	return &publicFixture{
		tokens:        tokens,
		properties:    properties,
		confirmations: confirmations,
		tenantID:      tenantID,
		property:      property,
		owner:         owner,
	}, token
}

func TestValidateToken_ReturnsSnapshotsWithoutConsuming(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewValidateTokenUseCase(fx.tokens, fx.properties)

	validation, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if validation.Property.Reference != "AP-100" {
		t.Errorf("property reference = %q, want AP-100", validation.Property.Reference)
	}
	if validation.Property.CurrentPrice != 450000 {
		t.Errorf("current price = %v, want 450000", validation.Property.CurrentPrice)
	}
	if validation.Owner.Name != "Maria Souza" {
		t.Errorf("owner name = %q, want Maria Souza", validation.Owner.Name)
	}
	if fx.tokens.tokens[token.TokenID].Consumed {
		t.Error("validation consumed the token")
	}

	// Повторная валидация идемпотентна.
	if _, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
}

func TestValidateToken_UnknownToken(t *testing.T) {
	fx, _ := newPublicFixture()
	uc := NewValidateTokenUseCase(fx.tokens, fx.properties)

	_, err := uc.Execute(context.Background(), uuid.New(), fx.tenantID)
	if !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	fx, token := newPublicFixture()
	token.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	uc := NewValidateTokenUseCase(fx.tokens, fx.properties)

	_, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateToken_ConsumedWinsOverExpired(t *testing.T) {
	fx, token := newPublicFixture()
	token.Consumed = true
	token.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	uc := NewValidateTokenUseCase(fx.tokens, fx.properties)

	_, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID)
	if !errors.Is(err, domain.ErrTokenConsumed) {
		t.Fatalf("err = %v, want ErrTokenConsumed", err)
	}
}

func TestValidateToken_TenantMismatch(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewValidateTokenUseCase(fx.tokens, fx.properties)

	_, err := uc.Execute(context.Background(), token.TokenID, uuid.New())
	if !errors.Is(err, domain.ErrTenantMismatch) {
		t.Fatalf("err = %v, want ErrTenantMismatch", err)
	}
}
