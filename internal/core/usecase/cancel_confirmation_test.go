package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
)

func TestCancelConfirmation_CancelsSentRecord(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewCancelConfirmationUseCase(fx.confirmations)
	confirmationID := fx.confirmations.byToken[token.TokenID]

	confirmation, err := uc.Execute(context.Background(), fx.tenantID, confirmationID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if confirmation.Status != domain.ConfirmationCancelled {
		t.Errorf("status = %q, want cancelled", confirmation.Status)
	}
}

func TestCancelConfirmation_RespondedRecordConflicts(t *testing.T) {
	fx, token := newPublicFixture()
	submitUC := NewSubmitConfirmationUseCase(fx.tokens, fx.confirmations)
	cancelUC := NewCancelConfirmationUseCase(fx.confirmations)
	confirmationID := fx.confirmations.byToken[token.TokenID]

	if _, err := submitUC.Execute(context.Background(), token.TokenID, fx.tenantID, domain.ActionConfirmAvailable, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := cancelUC.Execute(context.Background(), fx.tenantID, confirmationID)
	if !errors.Is(err, domain.ErrCancelConflict) {
		t.Fatalf("err = %v, want ErrCancelConflict", err)
	}
	// Ответ владельца не перезаписан.
	if got := fx.confirmations.confirmations[confirmationID].Status; got != domain.ConfirmationResponded {
		t.Errorf("status = %q, want responded", got)
	}
}

func TestCancelConfirmation_UnknownRecord(t *testing.T) {
	fx, _ := newPublicFixture()
	uc := NewCancelConfirmationUseCase(fx.confirmations)

	_, err := uc.Execute(context.Background(), fx.tenantID, uuid.New())
	if !errors.Is(err, domain.ErrConfirmationNotFound) {
		t.Fatalf("err = %v, want ErrConfirmationNotFound", err)
	}
}

func TestCancelConfirmation_WrongTenant(t *testing.T) {
	fx, token := newPublicFixture()
	uc := NewCancelConfirmationUseCase(fx.confirmations)
	confirmationID := fx.confirmations.byToken[token.TokenID]

	_, err := uc.Execute(context.Background(), uuid.New(), confirmationID)
	if !errors.Is(err, domain.ErrConfirmationNotFound) {
		t.Fatalf("err = %v, want ErrConfirmationNotFound", err)
	}
}
