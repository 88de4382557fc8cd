package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

func newIssueLinkFixture() (*IssueConfirmationLinkUseCase, *publicFixture) {
	tokens := newFakeTokenStorage()
	properties := newFakePropertyStorage()
	confirmations := newFakeConfirmationStorage(tokens, properties)

	tenantID := uuid.New()
	owner := &domain.Owner{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     "Joao Lima",
		Email:    strPtr("joao@example.com"),
	}
	property := &domain.Property{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Reference:   "CA-500",
		Status:      domain.PropertyAvailable,
		PriceAmount: 800000,
		OwnerID:     &owner.ID,
	}
	properties.properties[property.ID] = property
	properties.owners[owner.ID] = owner

	uc := NewIssueConfirmationLinkUseCase(properties, confirmations, "https://confirm.example.com", 30*24*time.Hour)
	return uc, &publicFixture{
		tokens:        tokens,
		properties:    properties,
		confirmations: confirmations,
		tenantID:      tenantID,
		property:      property,
		owner:         owner,
	}
}

func TestIssueConfirmationLink_DefaultsToPropertyOwnerAndManual(t *testing.T) {
	uc, fx := newIssueLinkFixture()

	url, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, uuid.Nil, "")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(url, "https://confirm.example.com/confirmar/") {
		t.Errorf("url = %q, want a public /confirmar link", url)
	}

	if len(fx.confirmations.confirmations) != 1 {
		t.Fatalf("stored confirmations = %d, want 1", len(fx.confirmations.confirmations))
	}
	for _, c := range fx.confirmations.confirmations {
		if c.OwnerID != fx.owner.ID {
			t.Errorf("owner_id = %s, want the property owner %s", c.OwnerID, fx.owner.ID)
		}
		if c.DeliveryMethod != domain.DeliveryManual {
			t.Errorf("delivery method = %q, want manual", c.DeliveryMethod)
		}
		// Ссылка валидна сразу: запись уже в sent, сабмит не упрется в pending.
		if c.Status != domain.ConfirmationSent {
			t.Errorf("status = %q, want sent", c.Status)
		}
	}
}

func TestIssueConfirmationLink_DeliveryHint(t *testing.T) {
	uc, fx := newIssueLinkFixture()

	if _, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, uuid.Nil, "email"); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, c := range fx.confirmations.confirmations {
		if c.DeliveryMethod != domain.DeliveryEmail {
			t.Errorf("delivery method = %q, want email", c.DeliveryMethod)
		}
	}
}

func TestIssueConfirmationLink_UnknownProperty(t *testing.T) {
	uc, fx := newIssueLinkFixture()

	_, err := uc.Execute(context.Background(), fx.tenantID, uuid.New(), uuid.Nil, "")
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("err = %v, want ErrPropertyNotFound", err)
	}
}

func TestIssueConfirmationLink_PropertyWithoutOwner(t *testing.T) {
	uc, fx := newIssueLinkFixture()
	fx.property.OwnerID = nil

	_, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, uuid.Nil, "")
	if !errors.Is(err, domain.ErrOwnerNotFound) {
		t.Fatalf("err = %v, want ErrOwnerNotFound", err)
	}
}

func TestIssueConfirmationLink_ActiveConfirmationBlocks(t *testing.T) {
	uc, fx := newIssueLinkFixture()

	if _, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, uuid.Nil, ""); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	_, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, uuid.Nil, "")
	if !errors.Is(err, domain.ErrDuplicateSchedule) {
		t.Fatalf("second Execute err = %v, want ErrDuplicateSchedule", err)
	}
}
