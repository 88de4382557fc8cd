package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

func TestOperatorConfirm_StatusAndPrice(t *testing.T) {
	fx, _ := newPublicFixture()
	uc := NewOperatorConfirmUseCase(fx.properties)

	status := domain.PropertyRented
	property, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, &status, floatPtr(500000), "owner called the office")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if property.Status != domain.PropertyRented {
		t.Errorf("status = %q, want rented", property.Status)
	}
	if property.PriceAmount != 500000 {
		t.Errorf("price = %v, want 500000", property.PriceAmount)
	}
	if property.StatusConfirmedAt == nil || property.PriceConfirmedAt == nil {
		t.Error("confirmed_at stamps missing")
	}
}

func TestOperatorConfirm_PriceOnlyKeepsStatusStamp(t *testing.T) {
	fx, _ := newPublicFixture()
	uc := NewOperatorConfirmUseCase(fx.properties)

	property, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, nil, floatPtr(460000), "price review")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if property.StatusConfirmedAt != nil {
		t.Error("status_confirmed_at stamped by a price-only confirmation")
	}
	if property.PriceConfirmedAt == nil {
		t.Error("price_confirmed_at missing")
	}
}

func TestOperatorConfirm_Rejections(t *testing.T) {
	fx, _ := newPublicFixture()
	uc := NewOperatorConfirmUseCase(fx.properties)

	if _, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, nil, nil, "empty"); err == nil {
		t.Error("confirmation with no fields was accepted")
	}

	bad := domain.PropertyStatus("haunted")
	if _, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, &bad, nil, "bad status"); err == nil {
		t.Error("unknown status was accepted")
	}

	if _, err := uc.Execute(context.Background(), fx.tenantID, fx.property.ID, nil, floatPtr(-1), "bad price"); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("err = %v, want ErrInvalidPrice", err)
	}

	if _, err := uc.Execute(context.Background(), fx.tenantID, uuid.New(), nil, floatPtr(100), "missing"); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Errorf("err = %v, want ErrPropertyNotFound", err)
	}
}
