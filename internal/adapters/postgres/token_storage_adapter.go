package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

// PostgresTokenStorage - реализация TokenStoragePort для PostgreSQL.
type PostgresTokenStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresTokenStorage - конструктор.
func NewPostgresTokenStorage(pool *pgxpool.Pool) (*PostgresTokenStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresTokenStorage{pool: pool}, nil
}

// Create сохраняет новый токен подтверждения.
func (r *PostgresTokenStorage) Create(ctx context.Context, token *domain.ConfirmationToken) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresTokenStorage",
		"method":    "Create",
		"token_id":  token.TokenID.String(),
	})

	query := `
		INSERT INTO confirmation_tokens (token_id, tenant_id, property_id, owner_id, expires_at, consumed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		token.TokenID,
		token.TenantID,
		token.PropertyID,
		token.OwnerID,
		token.ExpiresAt,
		token.Consumed,
		token.CreatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to create confirmation token", err, nil)
		return fmt.Errorf("failed to create confirmation token: %w", err)
	}

	repoLogger.Debug("Confirmation token created", nil)
	return nil
}

// GetByID находит токен по его ID.
func (r *PostgresTokenStorage) GetByID(ctx context.Context, tokenID uuid.UUID) (*domain.ConfirmationToken, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresTokenStorage",
		"method":    "GetByID",
		"token_id":  tokenID.String(),
	})

	query := `
		SELECT token_id, tenant_id, property_id, owner_id, expires_at, consumed, created_at
		FROM confirmation_tokens
		WHERE token_id = $1
	`
	var token domain.ConfirmationToken
	err := r.pool.QueryRow(ctx, query, tokenID).Scan(
		&token.TokenID,
		&token.TenantID,
		&token.PropertyID,
		&token.OwnerID,
		&token.ExpiresAt,
		&token.Consumed,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Token not found", nil)
			return nil, domain.ErrTokenNotFound
		}
		repoLogger.Error("Failed to find token by ID", err, nil)
		return nil, fmt.Errorf("failed to find token by id: %w", err)
	}

	return &token, nil
}
