package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

func TestSubmitConfirmation_ConfirmAvailable(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)

	confirmation, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmAvailable, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if confirmation.Status != domain.ConfirmationResponded {
		t.Errorf("confirmation status = %q, want responded", confirmation.Status)
	}
	if confirmation.Response == nil || *confirmation.Response != domain.ResponseAvailable {
		t.Errorf("response = %v, want available", confirmation.Response)
	}
	if !fx.tokens.tokens[token.TokenID].Consumed {
		t.Error("token was not consumed")
	}
	property := fx.properties.properties[fx.property.ID]
	if property.Status != domain.PropertyAvailable {
		t.Errorf("property status = %q, want available", property.Status)
	}
	if property.StatusConfirmedAt == nil {
		t.Error("status_confirmed_at was not stamped")
	}
}

func TestSubmitConfirmation_ConfirmUnavailable(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)

	_, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmUnavailable, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	property := fx.properties.properties[fx.property.ID]
	if property.Status != domain.PropertyUnavailable {
		t.Errorf("property status = %q, want unavailable", property.Status)
	}
	// Цена не трогается действием по статусу.
	if property.PriceConfirmedAt != nil {
		t.Error("price_confirmed_at stamped by a status action")
	}
}

func TestSubmitConfirmation_ConfirmPrice(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)

	confirmation, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmPrice, floatPtr(475000))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if confirmation.Response == nil || *confirmation.Response != domain.ResponsePriceUpdated {
		t.Errorf("response = %v, want price_updated", confirmation.Response)
	}
	property := fx.properties.properties[fx.property.ID]
	if property.PriceAmount != 475000 {
		t.Errorf("price amount = %v, want 475000", property.PriceAmount)
	}
	if property.PriceConfirmedAt == nil {
		t.Error("price_confirmed_at was not stamped")
	}
	if property.Status != domain.PropertyAvailable {
		t.Errorf("property status = %q, price action must not change it", property.Status)
	}
}

func TestSubmitConfirmation_PriceRequiresPositiveAmount(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)

	for name, amount := range map[string]*float64{
		"missing":  nil,
		"zero":     floatPtr(0),
		"negative": floatPtr(-100),
	} {
		_, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmPrice, amount)
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Errorf("%s amount: err = %v, want ErrInvalidPrice", name, err)
		}
	}
	if fx.tokens.tokens[token.TokenID].Consumed {
		t.Error("rejected submission consumed the token")
	}
}

func TestSubmitConfirmation_UnknownActionRejected(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)

	_, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ConfirmationAction("delete_property"), nil)
	if err == nil {
		t.Fatal("unknown action was accepted")
	}
	if fx.tokens.tokens[token.TokenID].Consumed {
		t.Error("rejected submission consumed the token")
	}
}

func TestSubmitConfirmation_SecondSubmitRejected(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)

	if _, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmAvailable, nil); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	_, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmUnavailable, nil)
	if !errors.Is(err, domain.ErrTokenConsumed) {
		t.Fatalf("second Execute err = %v, want ErrTokenConsumed", err)
	}

	// Первый ответ остается: responded терминален.
	property := fx.properties.properties[fx.property.ID]
	if property.Status != domain.PropertyAvailable {
		t.Errorf("property status = %q, first response must stand", property.Status)
	}
}

func TestSubmitConfirmation_RecordNotSent(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)

	confirmationID := fx.confirmations.byToken[token.TokenID]
	fx.confirmations.confirmations[confirmationID].Status = domain.ConfirmationCancelled

	_, err := uc.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmAvailable, nil)
	if !errors.Is(err, domain.ErrRecordNotInSentState) {
		t.Fatalf("err = %v, want ErrRecordNotInSentState", err)
	}
	if fx.tokens.tokens[token.TokenID].Consumed {
		t.Error("submission against a cancelled record consumed the token")
	}
}
