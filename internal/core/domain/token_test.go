package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewConfirmationToken_DefaultTTL(t *testing.T) {
	token := NewConfirmationToken(uuid.New(), uuid.New(), uuid.New(), 0)

	got := token.ExpiresAt.Sub(token.CreatedAt)
	if got != DefaultTokenTTL {
		t.Errorf("ttl = %v, want default %v", got, DefaultTokenTTL)
	}
	if token.Consumed {
		t.Error("fresh token is already consumed")
	}
}

func TestNewConfirmationToken_ExplicitTTL(t *testing.T) {
	ttl := 7 * 24 * time.Hour
	token := NewConfirmationToken(uuid.New(), uuid.New(), uuid.New(), ttl)

	if got := token.ExpiresAt.Sub(token.CreatedAt); got != ttl {
		t.Errorf("ttl = %v, want %v", got, ttl)
	}
}

func TestTokenValidate(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now().UTC()

	fresh := func() *ConfirmationToken {
		return &ConfirmationToken{
			TokenID:   uuid.New(),
			TenantID:  tenantID,
			ExpiresAt: now.Add(time.Hour),
		}
	}

	t.Run("valid", func(t *testing.T) {
		if err := fresh().Validate(tenantID, now); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		token := fresh()
		token.ExpiresAt = now.Add(-time.Minute)
		if err := token.Validate(tenantID, now); !errors.Is(err, ErrTokenExpired) {
			t.Errorf("err = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("consumed", func(t *testing.T) {
		token := fresh()
		token.Consumed = true
		if err := token.Validate(tenantID, now); !errors.Is(err, ErrTokenConsumed) {
			t.Errorf("err = %v, want ErrTokenConsumed", err)
		}
	})

	t.Run("consumed wins over expired", func(t *testing.T) {
		token := fresh()
		token.Consumed = true
		token.ExpiresAt = now.Add(-time.Minute)
		if err := token.Validate(tenantID, now); !errors.Is(err, ErrTokenConsumed) {
			t.Errorf("err = %v, want ErrTokenConsumed", err)
		}
	})

	t.Run("tenant mismatch", func(t *testing.T) {
		if err := fresh().Validate(uuid.New(), now); !errors.Is(err, ErrTenantMismatch) {
			t.Errorf("err = %v, want ErrTenantMismatch", err)
		}
	})

	t.Run("boundary instant is still valid", func(t *testing.T) {
		token := fresh()
		if err := token.Validate(tenantID, token.ExpiresAt); err != nil {
			t.Errorf("Validate at expires_at: %v", err)
		}
	})
}
